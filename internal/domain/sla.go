package domain

import "time"

// SLAState tracks response/resolution deadlines for a ticket. Deadlines are
// absolute timestamps; pausing the clock shifts them forward on resume by
// exactly the paused interval. Breach flags are monotonic until the ticket
// is reopened and a fresh window is established.
type SLAState struct {
	StartedAt               time.Time
	ResponseBudgetMinutes   int
	ResolutionBudgetMinutes int
	ResponseDeadline        time.Time
	ResolutionDeadline      time.Time
	PausedAt                *time.Time
	TotalPausedDuration     time.Duration
	ResponseBreached        bool
	ResolutionBreached      bool
}

// Paused reports whether the SLA clock is currently stopped.
func (s SLAState) Paused() bool {
	return s.PausedAt != nil
}
