package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/foodstore/foodstore-api/internal/domain/order"
	"github.com/foodstore/foodstore-api/internal/observer"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Cross-origin access is governed by the CORS middleware and bearer
	// session auth; the upgrade itself accepts any origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// snapshotMessage is one live delivery: the complete current view, never a
// diff. Clients replace their rendered state wholesale on every message.
type snapshotMessage struct {
	Type         string          `json:"type"`
	Orders       []orderResponse `json:"orders"`
	PendingCount int             `json:"pendingCount,omitempty"`
}

// OrdersLive streams the customer's order view. On connect the full current
// snapshot is delivered immediately; afterwards every order mutation
// re-delivers the complete view.
func (h *Handler) OrdersLive(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())

	h.serveLive(w, r, func(ctx context.Context) ([]order.Order, error) {
		return h.orders.CustomerOrders(ctx, p.ID)
	}, func(orders []order.Order) snapshotMessage {
		return snapshotMessage{
			Type:   "snapshot",
			Orders: toOrderResponses(observer.CustomerView(orders)),
		}
	})
}

// VendorOrdersLive streams the vendor's projected order view, including the
// pending-order count feeding the console badge.
func (h *Handler) VendorOrdersLive(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())

	h.serveLive(w, r, func(ctx context.Context) ([]order.Order, error) {
		return h.orders.VendorOrders(ctx, p.ID)
	}, func(orders []order.Order) snapshotMessage {
		view := observer.VendorView(orders, p.ID)
		return snapshotMessage{
			Type:         "snapshot",
			Orders:       toOrderResponses(view),
			PendingCount: observer.PendingCount(view),
		}
	})
}

// serveLive upgrades the connection, subscribes a live query on the hub,
// and forwards snapshots until the client goes away. The subscription is
// the page's single open stream; closing the socket releases it.
func (h *Handler) serveLive(
	w http.ResponseWriter,
	r *http.Request,
	fetch observer.Fetcher,
	render func([]order.Order) snapshotMessage,
) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sub := h.hub.Subscribe(ctx, fetch)
	defer sub.Unsubscribe()

	// Read pump: we expect no client messages, but reading is the only way
	// to notice the peer closing the socket.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	lg := zctx.From(r.Context())
	for snapshot := range sub.Snapshots() {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(render(snapshot)); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				lg.Debug("live stream write failed", zap.Error(err))
			}
			return
		}
	}
}
