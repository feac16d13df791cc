package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createShop(t *testing.T, f *fixture) shopResponse {
	t.Helper()
	rec := f.do(t, http.MethodPut, "/api/vendor/shop", f.vendorToken, map[string]any{
		"name":        "Burger Barn",
		"description": "Smashed patties",
		"isActive":    true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var shop shopResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shop))
	return shop
}

func TestPutVendorShop_CreateThenUpdateKeepsID(t *testing.T) {
	f := newFixture(t)

	created := createShop(t, f)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "v1", created.VendorID)

	rec := f.do(t, http.MethodPut, "/api/vendor/shop", f.vendorToken, map[string]any{
		"name":     "Burger Barn 2.0",
		"isActive": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated shopResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Burger Barn 2.0", updated.Name)
}

func TestPutVendorShop_NameRequired(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/api/vendor/shop", f.vendorToken, map[string]any{
		"description": "no name",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVendorShop_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/vendor/shop", f.vendorToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVendorItems_CRUD(t *testing.T) {
	f := newFixture(t)
	shop := createShop(t, f)

	// Create.
	rec := f.do(t, http.MethodPost, "/api/vendor/items", f.vendorToken, map[string]any{
		"name":        "Classic Burger",
		"price":       "8.50",
		"category":    "Burgers",
		"isAvailable": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created itemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, shop.ID, created.ShopID)
	assert.Equal(t, "v1", created.VendorID)

	// List shows it, available or not.
	rec = f.do(t, http.MethodGet, "/api/vendor/items", f.vendorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []itemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	// Update.
	rec = f.do(t, http.MethodPut, "/api/vendor/items/"+created.ID, f.vendorToken, map[string]any{
		"name":        "Classic Burger",
		"price":       "9.00",
		"category":    "Burgers",
		"isAvailable": false,
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Delete.
	rec = f.do(t, http.MethodDelete, "/api/vendor/items/"+created.ID, f.vendorToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/vendor/items", f.vendorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestCreateVendorItem_Validation(t *testing.T) {
	f := newFixture(t)
	createShop(t, f)

	rec := f.do(t, http.MethodPost, "/api/vendor/items", f.vendorToken, map[string]any{
		"price": "8.50",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/vendor/items", f.vendorToken, map[string]any{
		"name":  "Freebie",
		"price": "0",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateVendorItem_RequiresShop(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/vendor/items", f.vendorToken, map[string]any{
		"name":  "Orphan",
		"price": "5.00",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateVendorItem_NotOwned(t *testing.T) {
	f := newFixture(t)
	createShop(t, f)

	rec := f.do(t, http.MethodPut, "/api/vendor/items/someone-elses", f.vendorToken, map[string]any{
		"name":  "Hijack",
		"price": "1.00",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicListings(t *testing.T) {
	f := newFixture(t)
	createShop(t, f)

	rec := f.do(t, http.MethodPost, "/api/vendor/items", f.vendorToken, map[string]any{
		"name":        "Classic Burger",
		"price":       "8.50",
		"isAvailable": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// No token needed for storefront browsing.
	rec = f.do(t, http.MethodGet, "/api/shops", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var shops []shopResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shops))
	assert.Len(t, shops, 1)

	rec = f.do(t, http.MethodGet, "/api/items", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []itemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}
