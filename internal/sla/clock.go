package sla

import (
	"time"

	"github.com/deskwise/workflow-service/internal/domain"
)

// The clock works on absolute deadlines. Both deadlines always satisfy
//
//	deadline = StartedAt + budget + TotalPausedDuration
//
// so pausing never tracks "remaining minutes": resuming shifts the
// deadlines forward by exactly the paused interval, and a breach check is a
// plain timestamp comparison. No background timer is involved anywhere.

// Initialize computes a fresh SLA state at creation time.
func Initialize(policy Policy, now time.Time) domain.SLAState {
	return domain.SLAState{
		StartedAt:               now,
		ResponseBudgetMinutes:   policy.ResponseMinutes,
		ResolutionBudgetMinutes: policy.ResolutionMinutes,
		ResponseDeadline:        now.Add(time.Duration(policy.ResponseMinutes) * time.Minute),
		ResolutionDeadline:      now.Add(time.Duration(policy.ResolutionMinutes) * time.Minute),
	}
}

// RecomputeOnPriorityChange swaps in the new priority's budgets while
// preserving time already spent. Active elapsed time is StartedAt-relative,
// so re-deriving deadlines from StartedAt plus the accumulated pause total
// keeps it exact; an open pause interval is added when the clock resumes.
func RecomputeOnPriorityChange(state domain.SLAState, policy Policy) domain.SLAState {
	state.ResponseBudgetMinutes = policy.ResponseMinutes
	state.ResolutionBudgetMinutes = policy.ResolutionMinutes
	state.ResponseDeadline = state.StartedAt.
		Add(time.Duration(policy.ResponseMinutes) * time.Minute).
		Add(state.TotalPausedDuration)
	state.ResolutionDeadline = state.StartedAt.
		Add(time.Duration(policy.ResolutionMinutes) * time.Minute).
		Add(state.TotalPausedDuration)
	return state
}

// Pause stops the clock. Pausing an already-paused clock is a no-op.
func Pause(state domain.SLAState, now time.Time) domain.SLAState {
	if state.PausedAt != nil {
		return state
	}
	state.PausedAt = &now
	return state
}

// Resume restarts a paused clock, shifting both deadlines forward by the
// paused interval. Resuming a running clock is a no-op.
func Resume(state domain.SLAState, now time.Time) domain.SLAState {
	if state.PausedAt == nil {
		return state
	}
	elapsed := now.Sub(*state.PausedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	state.TotalPausedDuration += elapsed
	state.ResponseDeadline = state.ResponseDeadline.Add(elapsed)
	state.ResolutionDeadline = state.ResolutionDeadline.Add(elapsed)
	state.PausedAt = nil
	return state
}

// ResponseBreached reports whether the response deadline has passed.
// A paused clock cannot breach.
func ResponseBreached(state domain.SLAState, now time.Time) bool {
	return state.PausedAt == nil && now.After(state.ResponseDeadline)
}

// ResolutionBreached reports whether the resolution deadline has passed.
func ResolutionBreached(state domain.SLAState, now time.Time) bool {
	return state.PausedAt == nil && now.After(state.ResolutionDeadline)
}

// MarkBreached persists breach flags for any deadline currently past. The
// flags are monotonic: once set they stay set until Reopen establishes a
// fresh window. The second and third results report newly set flags.
func MarkBreached(state domain.SLAState, now time.Time) (domain.SLAState, bool, bool) {
	newResponse := !state.ResponseBreached && ResponseBreached(state, now)
	newResolution := !state.ResolutionBreached && ResolutionBreached(state, now)
	if newResponse {
		state.ResponseBreached = true
	}
	if newResolution {
		state.ResolutionBreached = true
	}
	return state, newResponse, newResolution
}

// Reopen establishes a fresh SLA window when a resolved or closed ticket
// returns to an active status. Breach flags reset with the new window.
func Reopen(policy Policy, now time.Time) domain.SLAState {
	return Initialize(policy, now)
}
