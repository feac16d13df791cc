package observer

import (
	"context"
	"sync"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/foodstore/foodstore-api/internal/domain/order"
)

// Fetcher produces the full current result set for one subscription. It is
// re-run on every relevant change; the hub never diffs.
type Fetcher func(ctx context.Context) ([]order.Order, error)

// Subscription is one live query stream. Snapshots arrive in publish order
// on a single subscription; no ordering holds across subscriptions.
type Subscription struct {
	snapshots chan []order.Order
	notify    chan struct{}
	cancel    context.CancelFunc
	done      chan struct{}
}

// Snapshots delivers the full matching result set on every relevant change,
// starting with one delivery at subscribe time. The channel closes after
// Unsubscribe or when the subscription context ends.
func (s *Subscription) Snapshots() <-chan []order.Order {
	return s.snapshots
}

// Unsubscribe tears the stream down and releases the hub slot. Safe to call
// more than once.
func (s *Subscription) Unsubscribe() {
	s.cancel()
	<-s.done
}

// Hub fans order-change notifications out to live subscriptions. Writers
// call OrderChanged after every committed mutation; each subscription then
// re-runs its fetcher and re-delivers the complete snapshot.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// OrderChanged wakes every subscription. Pending wakeups coalesce: a
// subscription that has not yet fetched picks up all changes in its next
// snapshot, so no delivery is lost and none is incremental.
func (h *Hub) OrderChanged(string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.notify <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a live query. The first snapshot is delivered
// immediately; afterwards the fetcher re-runs on every change. The stream
// ends when ctx is cancelled or Unsubscribe is called.
func (h *Hub) Subscribe(ctx context.Context, fetch Fetcher) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		snapshots: make(chan []order.Order, 1),
		notify:    make(chan struct{}, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go h.run(ctx, sub, fetch)
	return sub
}

func (h *Hub) run(ctx context.Context, sub *Subscription, fetch Fetcher) {
	defer func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		close(sub.snapshots)
		close(sub.done)
	}()

	// Initial delivery, then one full refetch per wakeup.
	if !h.deliver(ctx, sub, fetch) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.notify:
			if !h.deliver(ctx, sub, fetch) {
				return
			}
		}
	}
}

// deliver fetches the current result set and pushes it to the subscriber.
// A slow subscriber only ever sees the newest snapshot: a stale undelivered
// one is replaced rather than queued.
func (h *Hub) deliver(ctx context.Context, sub *Subscription, fetch Fetcher) bool {
	snapshot, err := fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		zctx.From(ctx).Error("subscription fetch failed", zap.Error(err))
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case sub.snapshots <- snapshot:
			return true
		default:
			// Drop the stale pending snapshot and retry with the new one.
			select {
			case <-sub.snapshots:
			default:
			}
		}
	}
}
