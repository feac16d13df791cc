package handler

import (
	"net/http"

	"github.com/foodstore/foodstore-api/internal/domain/cart"
	"github.com/foodstore/foodstore-api/internal/domain/order"
)

// GetCart returns the customer's persisted cart slot.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())
	items, err := h.carts.Load(r.Context(), p.ID)
	if err != nil {
		respondError(w, r, &order.PersistenceError{Op: "load cart", Err: err})
		return
	}

	c := cart.Cart{Items: items}
	writeJSON(w, http.StatusOK, struct {
		Items []cart.Item `json:"items"`
		Total string      `json:"total"`
	}{
		Items: items,
		Total: c.Total().String(),
	})
}

// PutCart replaces the customer's cart slot wholesale. The client owns cart
// edits (add, quantity change, remove) and syncs the resulting list.
func (h *Handler) PutCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []cart.Item `json:"items"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			writeError(w, r, http.StatusBadRequest, "item quantity must be at least 1")
			return
		}
	}

	p, _ := ProfileFromContext(r.Context())
	if err := h.carts.Save(r.Context(), p.ID, req.Items); err != nil {
		respondError(w, r, &order.PersistenceError{Op: "save cart", Err: err})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
