// Package order implements the order lifecycle: splitting a checkout cart
// into per-vendor sub-orders, persisting the compound order record, and
// advancing each sub-order through its fulfillment state machine.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentCashOnDelivery is the only supported payment method.
const PaymentCashOnDelivery = "Cash on Delivery"

// Sentinel vendor used for cart items that carry no vendor reference.
// Such items are grouped rather than rejected.
const (
	UnknownVendorID   = "unknown"
	UnknownVendorName = "Unknown Shop"
)

// LineItem is an immutable snapshot of one purchased catalog item, taken at
// checkout time. Later catalog edits never alter a placed order.
type LineItem struct {
	ItemID    string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Category  string          `json:"category"`
}

// Total returns unit price times quantity.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// VendorSubOrder is the portion of an order belonging to one vendor. It is
// owned by its parent Order and tracked independently through fulfillment
// states. Subtotal is fixed at creation.
type VendorSubOrder struct {
	VendorID   string          `json:"vendorId"`
	VendorName string          `json:"vendorName"`
	Items      []LineItem      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Order is one checkout transaction, possibly spanning multiple vendors.
// TotalPrice records the amount at creation time and is never recomputed,
// even if a sub-order is later cancelled.
type Order struct {
	ID              string
	CustomerID      string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	VendorOrders    []VendorSubOrder
	TotalPrice      decimal.Decimal
	PaymentMethod   string
	CreatedAt       time.Time

	// PlacedAt is the alternate timestamp some legacy records carry instead
	// of CreatedAt. Zero on records written by this service.
	PlacedAt time.Time
}

// SubOrder returns the sub-order belonging to vendorID, or nil. Each order
// holds at most one sub-order per vendor.
func (o *Order) SubOrder(vendorID string) *VendorSubOrder {
	for i := range o.VendorOrders {
		if o.VendorOrders[i].VendorID == vendorID {
			return &o.VendorOrders[i]
		}
	}
	return nil
}

// EffectiveTime is the timestamp orders are sorted by: CreatedAt when set,
// then the legacy PlacedAt, then the zero time so undated records sort last.
func (o *Order) EffectiveTime() time.Time {
	if !o.CreatedAt.IsZero() {
		return o.CreatedAt
	}
	return o.PlacedAt
}

// Repository defines persistence operations for orders. Listing never relies
// on store-side ordering; callers sort client-side.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)
	ListByVendor(ctx context.Context, vendorID string) ([]Order, error)

	// UpdateSubOrderStatus sets status and updatedAt on the single sub-order
	// identified by (orderID, vendorID), leaving every sibling untouched.
	UpdateSubOrderStatus(ctx context.Context, orderID, vendorID string, status Status, updatedAt time.Time) error
}
