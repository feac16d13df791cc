package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodstore/foodstore-api/internal/domain/catalog"
)

type shopResponse struct {
	ID          string `json:"id"`
	VendorID    string `json:"vendorId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Active      bool   `json:"isActive"`
}

type itemResponse struct {
	ID        string          `json:"id"`
	ShopID    string          `json:"shopId"`
	VendorID  string          `json:"vendorId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"imageUrl"`
	Available bool            `json:"isAvailable"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toShopResponse(s catalog.Shop) shopResponse {
	return shopResponse{
		ID:          s.ID,
		VendorID:    s.VendorID,
		Name:        s.Name,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		Active:      s.Active,
	}
}

func toItemResponses(items []catalog.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = itemResponse{
			ID:        it.ID,
			ShopID:    it.ShopID,
			VendorID:  it.VendorID,
			Name:      it.Name,
			Price:     it.Price,
			Category:  it.Category,
			ImageURL:  it.ImageURL,
			Available: it.Available,
			CreatedAt: it.CreatedAt,
		}
	}
	return out
}

// ListShops returns every active shop (public).
func (h *Handler) ListShops(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shops.ListActive(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]shopResponse, len(shops))
	for i, s := range shops {
		out[i] = toShopResponse(s)
	}
	writeJSON(w, http.StatusOK, out)
}

// ListItems returns the public storefront: items of active shops owned by
// verified vendors.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListStorefront(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}

// GetVendorShop returns the signed-in vendor's shop.
func (h *Handler) GetVendorShop(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())
	shop, err := h.shops.GetByVendor(r.Context(), p.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toShopResponse(*shop))
}

// PutVendorShop creates or updates the vendor's shop.
func (h *Handler) PutVendorShop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"imageUrl"`
		Active      bool   `json:"isActive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "shop name is required")
		return
	}

	p, _ := ProfileFromContext(r.Context())

	// Keep the existing shop id on update so items stay attached.
	id := uuid.New().String()
	if existing, err := h.shops.GetByVendor(r.Context(), p.ID); err == nil {
		id = existing.ID
	}

	shop := catalog.Shop{
		ID:          id,
		VendorID:    p.ID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	}
	if err := h.shops.Upsert(r.Context(), &shop); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toShopResponse(shop))
}

// ListVendorItems returns every item of the vendor's shop, available or not.
func (h *Handler) ListVendorItems(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())
	shop, err := h.shops.GetByVendor(r.Context(), p.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	items, err := h.items.ListByShop(r.Context(), shop.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}

type itemRequest struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"imageUrl"`
	Available bool            `json:"isAvailable"`
}

func (req *itemRequest) validate() string {
	if req.Name == "" {
		return "item name is required"
	}
	if req.Price.IsNegative() || req.Price.IsZero() {
		return "item price must be positive"
	}
	return ""
}

// CreateVendorItem adds an item to the vendor's shop.
func (h *Handler) CreateVendorItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	p, _ := ProfileFromContext(r.Context())
	shop, err := h.shops.GetByVendor(r.Context(), p.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	item := catalog.Item{
		ID:        uuid.New().String(),
		ShopID:    shop.ID,
		VendorID:  p.ID,
		Name:      req.Name,
		Price:     req.Price,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
		Available: req.Available,
	}
	if err := h.items.Create(r.Context(), &item); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponses([]catalog.Item{item})[0])
}

// UpdateVendorItem rewrites one of the vendor's items.
func (h *Handler) UpdateVendorItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	p, _ := ProfileFromContext(r.Context())
	item := catalog.Item{
		ID:        r.PathValue("id"),
		VendorID:  p.ID,
		Name:      req.Name,
		Price:     req.Price,
		Category:  req.Category,
		ImageURL:  req.ImageURL,
		Available: req.Available,
	}
	if err := h.items.Update(r.Context(), &item); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteVendorItem removes one of the vendor's items.
func (h *Handler) DeleteVendorItem(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())
	if err := h.items.Delete(r.Context(), r.PathValue("id"), p.ID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
