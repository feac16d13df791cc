// Package catalog models the shops and items customers browse. Orders take
// immutable snapshots of catalog items at checkout; nothing here is read
// back once an order is placed.
package catalog

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrShopNotFound = errors.New("shop not found")
	ErrItemNotFound = errors.New("item not found")
)

// Shop is a vendor's storefront. Each vendor owns at most one shop; only
// active shops of verified vendors are listed to customers.
type Shop struct {
	ID          string
	VendorID    string
	Name        string
	Description string
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
}

// Item is one sellable catalog entry.
type Item struct {
	ID        string
	ShopID    string
	VendorID  string
	Name      string
	Price     decimal.Decimal
	Category  string
	ImageURL  string
	Available bool
	CreatedAt time.Time
}

// ShopRepository defines persistence operations for shops.
type ShopRepository interface {
	// Upsert creates the vendor's shop or updates it in place.
	Upsert(ctx context.Context, s *Shop) error
	GetByVendor(ctx context.Context, vendorID string) (*Shop, error)
	ListActive(ctx context.Context) ([]Shop, error)
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	Create(ctx context.Context, it *Item) error
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id, vendorID string) error
	ListByShop(ctx context.Context, shopID string) ([]Item, error)

	// ListStorefront returns items of active shops owned by verified
	// vendors — the public browsing view.
	ListStorefront(ctx context.Context) ([]Item, error)
}
