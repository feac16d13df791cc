// Package handler exposes the storefront over HTTP: JSON endpoints for
// cart, checkout, order views, catalog, and profiles, plus websocket
// streams for live order tracking.
package handler

import (
	"net/http"

	"github.com/foodstore/foodstore-api/internal/domain/catalog"
	"github.com/foodstore/foodstore-api/internal/domain/order"
	"github.com/foodstore/foodstore-api/internal/domain/user"
	"github.com/foodstore/foodstore-api/internal/observer"
)

// Handler holds the domain dependencies behind the HTTP surface.
type Handler struct {
	orders   *order.Service
	carts    order.CartStore
	users    user.Repository
	shops    catalog.ShopRepository
	items    catalog.ItemRepository
	hub      *observer.Hub
	sessions *Sessions
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	orders *order.Service,
	carts order.CartStore,
	users user.Repository,
	shops catalog.ShopRepository,
	items catalog.ItemRepository,
	hub *observer.Hub,
	sessions *Sessions,
) *Handler {
	return &Handler{
		orders:   orders,
		carts:    carts,
		users:    users,
		shops:    shops,
		items:    items,
		hub:      hub,
		sessions: sessions,
	}
}

// Register mounts every route on mux. Role enforcement happens here; an
// authenticated user of the wrong role gets an explicit 403 body rather
// than a redirect.
func (h *Handler) Register(mux *http.ServeMux) {
	// Public storefront.
	mux.HandleFunc("GET /api/shops", h.ListShops)
	mux.HandleFunc("GET /api/items", h.ListItems)

	// Session.
	mux.HandleFunc("POST /api/auth/login", h.Authenticated(h.Login))
	mux.HandleFunc("POST /api/auth/logout", h.Authenticated(h.Logout))
	mux.HandleFunc("GET /api/profile", h.Authenticated(h.GetProfile))
	mux.HandleFunc("PUT /api/profile", h.Authenticated(h.UpdateProfile))

	// Customer cart and orders.
	mux.HandleFunc("GET /api/cart", h.Authenticated(h.GetCart))
	mux.HandleFunc("PUT /api/cart", h.Authenticated(h.PutCart))
	mux.HandleFunc("POST /api/checkout", h.Authenticated(h.Checkout))
	mux.HandleFunc("GET /api/orders", h.Authenticated(h.ListOrders))
	mux.HandleFunc("GET /api/orders/live", h.Authenticated(h.OrdersLive))

	// Vendor console.
	mux.HandleFunc("GET /api/vendor/shop", h.RequireRole(user.RoleVendor, h.GetVendorShop))
	mux.HandleFunc("PUT /api/vendor/shop", h.RequireRole(user.RoleVendor, h.PutVendorShop))
	mux.HandleFunc("GET /api/vendor/items", h.RequireRole(user.RoleVendor, h.ListVendorItems))
	mux.HandleFunc("POST /api/vendor/items", h.RequireRole(user.RoleVendor, h.CreateVendorItem))
	mux.HandleFunc("PUT /api/vendor/items/{id}", h.RequireRole(user.RoleVendor, h.UpdateVendorItem))
	mux.HandleFunc("DELETE /api/vendor/items/{id}", h.RequireRole(user.RoleVendor, h.DeleteVendorItem))
	mux.HandleFunc("GET /api/vendor/orders", h.RequireRole(user.RoleVendor, h.VendorOrders))
	mux.HandleFunc("GET /api/vendor/orders/live", h.RequireRole(user.RoleVendor, h.VendorOrdersLive))
	mux.HandleFunc("POST /api/orders/{id}/vendors/{vendorID}/status",
		h.RequireRole(user.RoleVendor, h.UpdateSubOrderStatus))

	// Admin console.
	mux.HandleFunc("GET /api/admin/vendors", h.RequireRole(user.RoleAdmin, h.ListVendors))
	mux.HandleFunc("POST /api/admin/vendors/{id}/verify", h.RequireRole(user.RoleAdmin, h.VerifyVendor))
}
