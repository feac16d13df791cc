package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limited(t *testing.T, max int, keyFunc func(*http.Request) string) http.Handler {
	t.Helper()
	return RateLimit(RateLimitConfig{
		Max:     max,
		Window:  time.Minute,
		KeyFunc: keyFunc,
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(handler http.Handler, remoteAddr string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_WithinBudget(t *testing.T) {
	handler := limited(t, 5, nil)

	for i := range 5 {
		rec := hit(handler, "192.168.1.1:12345", nil)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
	}
}

func TestRateLimit_BudgetExhausted(t *testing.T) {
	handler := limited(t, 2, nil)

	for range 2 {
		require.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:9999", nil).Code)
	}

	rec := hit(handler, "10.0.0.1:9999", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, float64(429), body["code"])
	assert.Equal(t, "rate limit exceeded", body["message"])
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	handler := limited(t, 1, nil)

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1234", nil).Code)
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2:1234", nil).Code)

	// Same client IP on a new connection still shares the budget.
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.1:5678", nil).Code)
}

func TestRateLimit_CustomKeyFunc(t *testing.T) {
	handler := limited(t, 1, func(r *http.Request) string {
		return r.Header.Get("X-API-Key")
	})

	assert.Equal(t, http.StatusOK, hit(handler, "1.1.1.1:1", map[string]string{"X-API-Key": "key-a"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "2.2.2.2:2", map[string]string{"X-API-Key": "key-a"}).Code)
	assert.Equal(t, http.StatusOK, hit(handler, "1.1.1.1:1", map[string]string{"X-API-Key": "key-b"}).Code)
}

func TestRateLimit_ForwardedForTakesPrecedence(t *testing.T) {
	handler := limited(t, 1, nil)

	xff := map[string]string{"X-Forwarded-For": "203.0.113.50, 70.41.3.18"}
	assert.Equal(t, http.StatusOK, hit(handler, "192.168.1.1:4444", xff).Code)

	// Different RemoteAddr, same forwarded client: shared budget.
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "192.168.1.2:5555", xff).Code)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.1.2.3:4567"
	assert.Equal(t, "10.1.2.3", clientIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.50")
	assert.Equal(t, "203.0.113.50", clientIP(r))
}
