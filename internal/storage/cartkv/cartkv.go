// Package cartkv persists each customer's cart in an embedded pebble
// key-value store. The cart is the only state that survives a reload
// without a round trip to the order store; it lives under a fixed
// per-customer slot key and is serialized as JSON.
package cartkv

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/go-faster/errors"

	"github.com/foodstore/foodstore-api/internal/domain/cart"
	"github.com/foodstore/foodstore-api/internal/domain/order"
)

// slotPrefix is the fixed key prefix for cart slots; one slot per customer.
const slotPrefix = "foodStoreCart/"

var _ order.CartStore = (*Store)(nil)

// Store is a pebble-backed cart slot store.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the store under dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "opening cart store")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the customer's cart slot. A missing slot is an empty cart.
func (s *Store) Load(_ context.Context, customerID string) ([]cart.Item, error) {
	val, closer, err := s.db.Get(slotKey(customerID))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading cart slot")
	}
	defer func() { _ = closer.Close() }()

	items, err := cart.Decode(val)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Save replaces the customer's cart slot with the given items. An empty
// list clears the slot.
func (s *Store) Save(ctx context.Context, customerID string, items []cart.Item) error {
	if len(items) == 0 {
		return s.Clear(ctx, customerID)
	}
	data, err := cart.Encode(items)
	if err != nil {
		return err
	}
	if err := s.db.Set(slotKey(customerID), data, pebble.Sync); err != nil {
		return errors.Wrap(err, "writing cart slot")
	}
	return nil
}

// Clear deletes the customer's cart slot.
func (s *Store) Clear(_ context.Context, customerID string) error {
	if err := s.db.Delete(slotKey(customerID), pebble.Sync); err != nil {
		return errors.Wrap(err, "clearing cart slot")
	}
	return nil
}

func slotKey(customerID string) []byte {
	return []byte(slotPrefix + customerID)
}
