package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/foodstore/foodstore-api/internal/domain/catalog"
	"github.com/foodstore/foodstore-api/internal/domain/order"
	"github.com/foodstore/foodstore-api/internal/domain/user"
)

// errorBody is the JSON error envelope. No raw store-driver error ever
// crosses the HTTP boundary.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if status >= http.StatusInternalServerError {
		zctx.From(r.Context()).Error("request failed",
			zap.Int("status", status),
			zap.String("message", message),
		)
	}
	writeJSON(w, status, errorBody{Code: status, Message: message})
}

// respondError maps domain errors onto the error taxonomy: validation 400,
// illegal transition 422, not found 404, access denied 403, store failure
// 502. Everything is logged; nothing is swallowed.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *order.ValidationError
		transitionErr *order.InvalidTransitionError
		notFoundErr   *order.NotFoundError
		authErr       *AuthorizationError
		persistErr    *order.PersistenceError
	)

	switch {
	case errors.Is(err, order.ErrEmptyCart), errors.As(err, &validationErr):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.As(err, &transitionErr):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &notFoundErr),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, catalog.ErrShopNotFound),
		errors.Is(err, catalog.ErrItemNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.As(err, &authErr):
		writeError(w, r, http.StatusForbidden, err.Error())
	case errors.As(err, &persistErr):
		zctx.From(r.Context()).Error("store operation failed", zap.Error(err))
		writeError(w, r, http.StatusBadGateway, "store unavailable, please retry")
	default:
		zctx.From(r.Context()).Error("unhandled error", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
