package handler

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/go-faster/errors"

	"github.com/foodstore/foodstore-api/internal/domain/user"
)

// ErrSessionNotFound is returned when a presented token matches no session.
var ErrSessionNotFound = errors.New("session not found")

// SessionInfo resolves a stored session to its owning profile.
type SessionInfo struct {
	TokenHash string
	User      user.Profile
}

// SessionRepository provides lookup of sessions by the HMAC-SHA256 hash of
// their bearer token. Plain tokens are never stored.
type SessionRepository interface {
	Create(ctx context.Context, tokenHash, userID string) error
	FindByHash(ctx context.Context, tokenHash string) (*SessionInfo, error)
	Delete(ctx context.Context, tokenHash string) error
}

// AuthorizationError indicates a role mismatch: the signed-in user reached a
// view reserved for another role. It is surfaced as an explicit
// access-denied state, never a silent redirect.
type AuthorizationError struct {
	Role     user.Role
	Required user.Role
}

func (e *AuthorizationError) Error() string {
	return "access denied: " + string(e.Required) + " role required"
}

// Sessions authenticates bearer tokens against HMAC-SHA256 hashed sessions.
type Sessions struct {
	repo   SessionRepository
	pepper []byte
}

// NewSessions creates a Sessions authenticator with the given repository
// and HMAC pepper.
func NewSessions(repo SessionRepository, pepper []byte) *Sessions {
	return &Sessions{repo: repo, pepper: pepper}
}

// Issue generates a fresh random token, stores its hash for the user, and
// returns the plain token. The plain token exists only in this response.
func (s *Sessions) Issue(ctx context.Context, userID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "generate token")
	}
	token := hex.EncodeToString(raw)
	if err := s.repo.Create(ctx, s.hash(token), userID); err != nil {
		return "", errors.Wrap(err, "store session")
	}
	return token, nil
}

// Revoke deletes the session behind the token.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	return s.repo.Delete(ctx, s.hash(token))
}

// Authenticate resolves a bearer token to its profile. The stored hash is
// re-compared in constant time to guard against timing side-channels even
// though the lookup already succeeded.
func (s *Sessions) Authenticate(ctx context.Context, token string) (*user.Profile, error) {
	hash := s.hash(token)
	info, err := s.repo.FindByHash(ctx, hash)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	computed, err := hex.DecodeString(hash)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	stored, err := hex.DecodeString(info.TokenHash)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if subtle.ConstantTimeCompare(computed, stored) != 1 {
		return nil, ErrSessionNotFound
	}

	return &info.User, nil
}

func (s *Sessions) hash(token string) string {
	mac := hmac.New(sha256.New, s.pepper)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}

// profileKey is the context key for the authenticated profile.
type profileKey struct{}

// ProfileFromContext extracts the authenticated profile set by Authenticated.
func ProfileFromContext(ctx context.Context) (*user.Profile, bool) {
	p, ok := ctx.Value(profileKey{}).(*user.Profile)
	return p, ok
}

// Authenticated wraps next so it only runs for requests carrying a valid
// bearer session token; the resolved profile is stored in the context.
func (h *Handler) Authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		p, err := h.sessions.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "invalid session")
			return
		}
		ctx := context.WithValue(r.Context(), profileKey{}, p)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole wraps next so it only runs for profiles with the given role.
func (h *Handler) RequireRole(role user.Role, next http.HandlerFunc) http.HandlerFunc {
	return h.Authenticated(func(w http.ResponseWriter, r *http.Request) {
		p, _ := ProfileFromContext(r.Context())
		if p.Role != role {
			respondError(w, r, &AuthorizationError{Role: p.Role, Required: role})
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	// Websocket clients cannot set headers from the browser; accept the
	// token as a query parameter on upgrade requests only.
	return r.URL.Query().Get("token")
}
