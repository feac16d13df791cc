package observer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodstore/foodstore-api/internal/domain/order"
)

func receiveSnapshot(t *testing.T, sub *Subscription) []order.Order {
	t.Helper()
	select {
	case snapshot, ok := <-sub.Snapshots():
		require.True(t, ok, "snapshot channel closed")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestHub_InitialSnapshot(t *testing.T) {
	hub := NewHub()
	fetch := func(context.Context) ([]order.Order, error) {
		return []order.Order{{ID: "o1"}}, nil
	}

	sub := hub.Subscribe(context.Background(), fetch)
	defer sub.Unsubscribe()

	snapshot := receiveSnapshot(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "o1", snapshot[0].ID)
}

func TestHub_RedeliversOnChange(t *testing.T) {
	hub := NewHub()
	var calls atomic.Int64
	fetch := func(context.Context) ([]order.Order, error) {
		n := calls.Add(1)
		if n == 1 {
			return []order.Order{{ID: "o1"}}, nil
		}
		return []order.Order{{ID: "o1"}, {ID: "o2"}}, nil
	}

	sub := hub.Subscribe(context.Background(), fetch)
	defer sub.Unsubscribe()

	first := receiveSnapshot(t, sub)
	require.Len(t, first, 1)

	hub.OrderChanged("o2")

	second := receiveSnapshot(t, sub)
	require.Len(t, second, 2)
}

func TestHub_UnsubscribeClosesStream(t *testing.T) {
	hub := NewHub()
	fetch := func(context.Context) ([]order.Order, error) { return nil, nil }

	sub := hub.Subscribe(context.Background(), fetch)
	receiveSnapshot(t, sub)

	sub.Unsubscribe()

	_, ok := <-sub.Snapshots()
	assert.False(t, ok)

	// Notifications after teardown are a no-op.
	hub.OrderChanged("o1")

	// Safe to call twice.
	sub.Unsubscribe()
}

func TestHub_ContextCancelClosesStream(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(context.Context) ([]order.Order, error) { return nil, nil }

	sub := hub.Subscribe(ctx, fetch)
	receiveSnapshot(t, sub)

	cancel()

	select {
	case _, ok := <-sub.Snapshots():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close after context cancel")
	}
}

func TestHub_FetchErrorKeepsSubscription(t *testing.T) {
	hub := NewHub()
	var calls atomic.Int64
	fetch := func(context.Context) ([]order.Order, error) {
		n := calls.Add(1)
		if n == 2 {
			return nil, errors.New("store unavailable")
		}
		return []order.Order{{ID: "o1"}}, nil
	}

	sub := hub.Subscribe(context.Background(), fetch)
	defer sub.Unsubscribe()

	receiveSnapshot(t, sub)

	// This wakeup hits the failing fetch; the stream survives and the next
	// change delivers again.
	hub.OrderChanged("o1")
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	hub.OrderChanged("o1")
	snapshot := receiveSnapshot(t, sub)
	require.Len(t, snapshot, 1)
}

func TestHub_SlowSubscriberGetsNewestSnapshot(t *testing.T) {
	hub := NewHub()
	var version atomic.Int64
	fetch := func(context.Context) ([]order.Order, error) {
		v := version.Load()
		return []order.Order{{ID: "o1", CustomerID: string(rune('a' + v))}}, nil
	}

	sub := hub.Subscribe(context.Background(), fetch)
	defer sub.Unsubscribe()

	receiveSnapshot(t, sub)

	// Publish several versions without reading; the pending snapshot is
	// replaced, not queued.
	for i := 1; i <= 3; i++ {
		version.Store(int64(i))
		hub.OrderChanged("o1")
		time.Sleep(20 * time.Millisecond)
	}

	snapshot := receiveSnapshot(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "d", snapshot[0].CustomerID)
}
