package sla_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/deskwise/workflow-service/internal/sla"
)

var t0 = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func criticalPolicy() sla.Policy {
	return sla.Policy{ResponseMinutes: 15, ResolutionMinutes: 240}
}

func TestInitializeSetsAbsoluteDeadlines(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)

	require.Equal(t, t0, state.StartedAt)
	require.Equal(t, t0.Add(15*time.Minute), state.ResponseDeadline)
	require.Equal(t, t0.Add(240*time.Minute), state.ResolutionDeadline)
	require.Nil(t, state.PausedAt)
	require.Zero(t, state.TotalPausedDuration)
	require.False(t, state.ResponseBreached)
	require.False(t, state.ResolutionBreached)
}

func TestPauseShiftsDeadlinesByPausedInterval(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)

	// pause after 60 minutes, resume 30 minutes later
	state = sla.Pause(state, t0.Add(60*time.Minute))
	require.True(t, state.Paused())

	state = sla.Resume(state, t0.Add(90*time.Minute))
	require.False(t, state.Paused())
	require.Equal(t, 30*time.Minute, state.TotalPausedDuration)
	require.Equal(t, t0.Add(270*time.Minute), state.ResolutionDeadline)

	// the paused half hour does not count toward the budget
	require.False(t, sla.ResolutionBreached(state, t0.Add(250*time.Minute)))
	require.True(t, sla.ResolutionBreached(state, t0.Add(271*time.Minute)))
}

func TestPauseIsIdempotent(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)

	state = sla.Pause(state, t0.Add(10*time.Minute))
	again := sla.Pause(state, t0.Add(20*time.Minute))
	require.Equal(t, state, again)

	// resuming charges the original pause timestamp
	resumed := sla.Resume(again, t0.Add(30*time.Minute))
	require.Equal(t, 20*time.Minute, resumed.TotalPausedDuration)
}

func TestResumeRunningClockIsNoOp(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)
	resumed := sla.Resume(state, t0.Add(10*time.Minute))
	require.Equal(t, state, resumed)
}

func TestPausedClockCannotBreach(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)
	state = sla.Pause(state, t0.Add(5*time.Minute))

	require.False(t, sla.ResponseBreached(state, t0.Add(1000*time.Minute)))
	require.False(t, sla.ResolutionBreached(state, t0.Add(1000*time.Minute)))
}

func TestMarkBreachedIsMonotonic(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)

	state, newResponse, newResolution := sla.MarkBreached(state, t0.Add(16*time.Minute))
	require.True(t, newResponse)
	require.False(t, newResolution)
	require.True(t, state.ResponseBreached)

	// a second evaluation reports nothing new
	state, newResponse, newResolution = sla.MarkBreached(state, t0.Add(20*time.Minute))
	require.False(t, newResponse)
	require.False(t, newResolution)
	require.True(t, state.ResponseBreached)

	state, newResponse, newResolution = sla.MarkBreached(state, t0.Add(241*time.Minute))
	require.False(t, newResponse)
	require.True(t, newResolution)
	require.True(t, state.ResolutionBreached)
}

func TestDeadlineInstantIsNotBreached(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)

	require.False(t, sla.ResponseBreached(state, t0.Add(15*time.Minute)))
	require.True(t, sla.ResponseBreached(state, t0.Add(15*time.Minute+time.Nanosecond)))
}

func TestRecomputeOnPriorityChangePreservesElapsedTime(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)
	state = sla.Pause(state, t0.Add(30*time.Minute))
	state = sla.Resume(state, t0.Add(50*time.Minute))

	// escalate to a tighter resolution budget of 120 minutes
	state = sla.RecomputeOnPriorityChange(state, sla.Policy{ResponseMinutes: 10, ResolutionMinutes: 120})

	require.Equal(t, 10, state.ResponseBudgetMinutes)
	require.Equal(t, 120, state.ResolutionBudgetMinutes)
	// StartedAt + new budget + 20 minutes of accumulated pause
	require.Equal(t, t0.Add(140*time.Minute), state.ResolutionDeadline)
	require.Equal(t, t0.Add(30*time.Minute), state.ResponseDeadline)
}

func TestRecomputeWhilePausedStaysConsistentThroughResume(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)
	state = sla.Pause(state, t0.Add(30*time.Minute))

	state = sla.RecomputeOnPriorityChange(state, sla.Policy{ResponseMinutes: 60, ResolutionMinutes: 480})
	require.True(t, state.Paused())

	// the open pause interval is charged at resume time
	state = sla.Resume(state, t0.Add(40*time.Minute))
	require.Equal(t, 10*time.Minute, state.TotalPausedDuration)
	require.Equal(t, t0.Add(490*time.Minute), state.ResolutionDeadline)
}

func TestReopenEstablishesFreshWindow(t *testing.T) {
	state := sla.Initialize(criticalPolicy(), t0)
	state, _, _ = sla.MarkBreached(state, t0.Add(300*time.Minute))
	require.True(t, state.ResolutionBreached)

	reopenedAt := t0.Add(24 * time.Hour)
	fresh := sla.Reopen(criticalPolicy(), reopenedAt)

	require.Equal(t, reopenedAt, fresh.StartedAt)
	require.False(t, fresh.ResponseBreached)
	require.False(t, fresh.ResolutionBreached)
	require.Zero(t, fresh.TotalPausedDuration)
	require.Equal(t, reopenedAt.Add(240*time.Minute), fresh.ResolutionDeadline)
}
