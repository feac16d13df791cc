package handler

import (
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/foodstore/foodstore-api/internal/domain/user"
)

type profileResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Verified bool   `json:"isVerified"`
	Online   bool   `json:"isOnline"`
	Phone    string `json:"phoneNumber"`
	Address  string `json:"defaultAddress"`
	PhotoURL string `json:"photoUrl"`
}

func toProfileResponse(p user.Profile) profileResponse {
	return profileResponse{
		ID:       p.ID,
		Email:    p.Email,
		Name:     p.Name,
		Role:     string(p.Role),
		Verified: p.Verified,
		Online:   p.Online,
		Phone:    p.Phone,
		Address:  p.Address,
		PhotoURL: p.PhotoURL,
	}
}

// GetProfile returns the signed-in user's profile document.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())
	writeJSON(w, http.StatusOK, toProfileResponse(*p))
}

// UpdateProfile rewrites the mutable contact fields. Role and flags are not
// editable here.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Phone    string `json:"phoneNumber"`
		Address  string `json:"defaultAddress"`
		PhotoURL string `json:"photoUrl"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	p, _ := ProfileFromContext(r.Context())
	err := h.users.UpdateContact(r.Context(), p.ID, req.Name, req.Phone, req.Address, req.PhotoURL)
	if err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Login marks the start of a session: the presence flag flips on and the
// profile is returned so the client can route by role.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())

	if err := h.users.SetOnline(r.Context(), p.ID, true); err != nil {
		respondError(w, r, err)
		return
	}
	p.Online = true
	writeJSON(w, http.StatusOK, toProfileResponse(*p))
}

// Logout revokes the presented session and flips the presence flag off.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p, _ := ProfileFromContext(r.Context())

	if err := h.sessions.Revoke(r.Context(), bearerToken(r)); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.users.SetOnline(r.Context(), p.ID, false); err != nil {
		// Presence is best effort; the session is already gone.
		zctx.From(r.Context()).Warn("presence update failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
