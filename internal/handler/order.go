package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/foodstore/foodstore-api/internal/domain/order"
	"github.com/foodstore/foodstore-api/internal/observer"
)

// orderResponse is the wire shape of a compound order, matching the
// document format the storefront clients render.
type orderResponse struct {
	ID              string                 `json:"id"`
	CustomerID      string                 `json:"customerId"`
	CustomerName    string                 `json:"customerName"`
	CustomerPhone   string                 `json:"customerPhone"`
	CustomerAddress string                 `json:"customerAddress"`
	VendorOrders    []order.VendorSubOrder `json:"vendorOrders"`
	TotalPrice      decimal.Decimal        `json:"totalPrice"`
	PaymentMethod   string                 `json:"paymentMethod"`
	CreatedAt       time.Time              `json:"createdAt"`
}

func toOrderResponse(o order.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		VendorOrders:    o.VendorOrders,
		TotalPrice:      o.TotalPrice,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.EffectiveTime(),
	}
}

func toOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

// Checkout places the order built from the customer's cart slot.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	p, _ := ProfileFromContext(r.Context())
	o, err := h.orders.Checkout(r.Context(), order.CheckoutInfo{
		CustomerID:    p.ID,
		CustomerName:  p.Name,
		CustomerEmail: p.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(*o))
}

// ListOrders returns the signed-in customer's orders, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())
	list, err := h.orders.CustomerOrders(r.Context(), p.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(observer.CustomerView(list)))
}

// VendorOrders returns orders containing the vendor's sub-orders, projected
// so sibling sub-orders stay hidden.
func (h *Handler) VendorOrders(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())
	list, err := h.orders.VendorOrders(r.Context(), p.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	view := observer.VendorView(list, p.ID)
	writeJSON(w, http.StatusOK, struct {
		Orders       []orderResponse `json:"orders"`
		PendingCount int             `json:"pendingCount"`
	}{
		Orders:       toOrderResponses(view),
		PendingCount: observer.PendingCount(view),
	})
}

// UpdateSubOrderStatus advances (or cancels) the vendor's own sub-order
// within one order. Only the immediate successor of the current status, or
// cancellation of a non-terminal state, is accepted.
func (h *Handler) UpdateSubOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	p, _ := ProfileFromContext(r.Context())
	orderID := r.PathValue("id")
	vendorID := r.PathValue("vendorID")

	// A vendor may only advance its own sub-order.
	if vendorID != p.ID {
		respondError(w, r, &AuthorizationError{Role: p.Role, Required: p.Role})
		return
	}

	o, err := h.orders.Transition(r.Context(), orderID, vendorID, target)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*o))
}
