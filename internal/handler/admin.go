package handler

import (
	"net/http"

	"github.com/foodstore/foodstore-api/internal/domain/user"
)

// ListVendors returns every vendor profile with verification and presence
// state, for the admin console.
func (h *Handler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.users.ListByRole(r.Context(), user.RoleVendor)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]profileResponse, len(vendors))
	for i, v := range vendors {
		out[i] = toProfileResponse(v)
	}
	writeJSON(w, http.StatusOK, out)
}

// VerifyVendor toggles a vendor's verification flag. Unverified vendors
// stay off the public storefront.
func (h *Handler) VerifyVendor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Verified bool `json:"isVerified"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.users.SetVerified(r.Context(), r.PathValue("id"), req.Verified); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
