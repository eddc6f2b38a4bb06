package reservation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRecompute_EmptyTaskListIsNoop(t *testing.T) {
	_, ok := Recompute(StatusScheduled, taskPending, taskInProgress, nil)
	require.False(t, ok)
}

func TestRecompute_FirstTaskStartMovesToInProgress(t *testing.T) {
	res, ok := Recompute(StatusScheduled, taskPending, taskInProgress, []string{taskInProgress, taskPending})
	require.True(t, ok)
	require.Equal(t, StatusInProgress, res.Status)
	require.True(t, res.Percentage.IsZero(), "percentage = %s", res.Percentage)
}

func TestRecompute_DirectCompletionDoesNotStartEvent(t *testing.T) {
	// A task jumping Pendiente -> COMPLETADA without passing EN_PROCESO must
	// not flip the reservation to ENCURSO.
	res, ok := Recompute(StatusScheduled, taskPending, taskCompleted, []string{taskCompleted, taskPending})
	require.True(t, ok)
	require.Equal(t, StatusScheduled, res.Status)
	require.True(t, res.Percentage.Equal(decimal.NewFromInt(50)), "percentage = %s", res.Percentage)
}

func TestRecompute_StartRuleOnlyAppliesWhenScheduled(t *testing.T) {
	res, ok := Recompute(StatusPlanning, taskPending, taskInProgress, []string{taskInProgress})
	require.True(t, ok)
	require.Equal(t, StatusPlanning, res.Status)
}

func TestRecompute_MonotonicCompletion(t *testing.T) {
	// Four tasks completed one at a time: percentage tracks completed/total
	// and the reservation finishes exactly on the last completion.
	statuses := []string{taskPending, taskPending, taskPending, taskPending}
	current := StatusInProgress

	expected := []string{"25", "50", "75", "100"}
	for i := range statuses {
		statuses[i] = taskCompleted
		res, ok := Recompute(current, taskInProgress, taskCompleted, statuses)
		require.True(t, ok)
		require.True(t, res.Percentage.Equal(decimal.RequireFromString(expected[i])),
			"after %d completions: percentage = %s", i+1, res.Percentage)
		if i < len(statuses)-1 {
			require.Equal(t, StatusInProgress, res.Status)
		} else {
			require.Equal(t, StatusFinished, res.Status)
		}
		current = res.Status
	}
}

func TestRecompute_FractionalPercentageRounds(t *testing.T) {
	res, ok := Recompute(StatusInProgress, taskInProgress, taskCompleted,
		[]string{taskCompleted, taskPending, taskPending})
	require.True(t, ok)
	require.True(t, res.Percentage.Equal(decimal.RequireFromString("33.33")), "percentage = %s", res.Percentage)
}

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(StatusPlanning, StatusScheduled))
	require.True(t, CanTransition(StatusScheduled, StatusInProgress))
	require.True(t, CanTransition(StatusInProgress, StatusFinished))
	require.True(t, CanTransition(StatusPlanning, StatusCancelled))
	require.True(t, CanTransition(StatusInProgress, StatusCancelled))

	require.False(t, CanTransition(StatusPlanning, StatusInProgress))
	require.False(t, CanTransition(StatusFinished, StatusCancelled))
	require.False(t, CanTransition(StatusCancelled, StatusPlanning))
}
