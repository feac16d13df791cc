package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"pending", "accepted", "preparing", "ready", "completed", "cancelled"} {
		st, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, Status(raw), st)
	}

	_, err := ParseStatus("shipped")
	require.Error(t, err)

	_, err = ParseStatus("")
	require.Error(t, err)
}

func TestStatus_Successor(t *testing.T) {
	cases := []struct {
		from Status
		want Status
	}{
		{StatusPending, StatusAccepted},
		{StatusAccepted, StatusPreparing},
		{StatusPreparing, StatusReady},
		{StatusReady, StatusCompleted},
	}
	for _, tc := range cases {
		next, ok := tc.from.Successor()
		require.True(t, ok, "successor of %s", tc.from)
		assert.Equal(t, tc.want, next)
	}

	_, ok := StatusCompleted.Successor()
	assert.False(t, ok)
	_, ok = StatusCancelled.Successor()
	assert.False(t, ok)
}

func TestStatus_CanTransition_SuccessorOnly(t *testing.T) {
	assert.True(t, StatusPending.CanTransition(StatusAccepted))
	assert.True(t, StatusAccepted.CanTransition(StatusPreparing))
	assert.True(t, StatusPreparing.CanTransition(StatusReady))
	assert.True(t, StatusReady.CanTransition(StatusCompleted))

	// Skipping ahead and moving backward are both rejected.
	assert.False(t, StatusPending.CanTransition(StatusPreparing))
	assert.False(t, StatusPending.CanTransition(StatusCompleted))
	assert.False(t, StatusPreparing.CanTransition(StatusAccepted))
	assert.False(t, StatusReady.CanTransition(StatusPending))
}

func TestStatus_CanTransition_Cancellation(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusAccepted, StatusPreparing, StatusReady} {
		assert.True(t, from.CanTransition(StatusCancelled), "cancel from %s", from)
	}
}

func TestStatus_TerminalStatesAreClosed(t *testing.T) {
	all := []Status{StatusPending, StatusAccepted, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled}
	for _, terminal := range []Status{StatusCompleted, StatusCancelled} {
		assert.True(t, terminal.Terminal())
		assert.Empty(t, NextAllowed(terminal))
		for _, target := range all {
			assert.False(t, terminal.CanTransition(target), "%s -> %s", terminal, target)
		}
	}
}

func TestNextAllowed(t *testing.T) {
	assert.Equal(t, []Status{StatusAccepted, StatusCancelled}, NextAllowed(StatusPending))
	assert.Equal(t, []Status{StatusCompleted, StatusCancelled}, NextAllowed(StatusReady))
	assert.Nil(t, NextAllowed(StatusCancelled))
}
