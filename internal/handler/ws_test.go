package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialLive(t *testing.T, srv *httptest.Server, path, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path + "?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) snapshotMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg snapshotMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestOrdersLive_DeliversSnapshotsOnChange(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.mux)
	defer srv.Close()

	conn := dialLive(t, srv, "/api/orders/live", f.customerToken)

	// The connection opens with the full current view.
	first := readSnapshot(t, conn)
	assert.Equal(t, "snapshot", first.Type)
	assert.Empty(t, first.Orders)

	orderID := placeOrder(t, f)

	// The mutation re-delivers the complete view, not a diff.
	second := readSnapshot(t, conn)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, orderID, second.Orders[0].ID)
	assert.Len(t, second.Orders[0].VendorOrders, 2)
}

func TestVendorOrdersLive_ProjectedView(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.mux)
	defer srv.Close()

	conn := dialLive(t, srv, "/api/vendor/orders/live", f.vendorToken)

	first := readSnapshot(t, conn)
	assert.Empty(t, first.Orders)
	assert.Zero(t, first.PendingCount)

	placeOrder(t, f)

	second := readSnapshot(t, conn)
	require.Len(t, second.Orders, 1)
	// Only the vendor's own sub-order is visible, and it counts as pending.
	require.Len(t, second.Orders[0].VendorOrders, 1)
	assert.Equal(t, "v1", second.Orders[0].VendorOrders[0].VendorID)
	assert.Equal(t, 1, second.PendingCount)
}

func TestVendorOrdersLive_TracksStatusChanges(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.mux)
	defer srv.Close()

	conn := dialLive(t, srv, "/api/vendor/orders/live", f.vendorToken)
	readSnapshot(t, conn)

	orderID := placeOrder(t, f)
	afterPlace := readSnapshot(t, conn)
	require.Equal(t, 1, afterPlace.PendingCount)

	rec := f.do(t, http.MethodPost, "/api/orders/"+orderID+"/vendors/v1/status", f.vendorToken,
		map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rec.Code)

	afterAccept := readSnapshot(t, conn)
	require.Len(t, afterAccept.Orders, 1)
	assert.Equal(t, "accepted", string(afterAccept.Orders[0].VendorOrders[0].Status))
	assert.Zero(t, afterAccept.PendingCount)
}

func TestOrdersLive_RejectsMissingToken(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.mux)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/orders/live"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	if conn != nil {
		_ = conn.Close()
	}
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
