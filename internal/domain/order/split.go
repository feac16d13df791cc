package order

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodstore/foodstore-api/internal/domain/cart"
)

// CheckoutInfo carries the authenticated customer identity and the delivery
// contact fields collected at checkout. Phone and address are required.
type CheckoutInfo struct {
	CustomerID    string
	CustomerName  string
	CustomerEmail string
	Phone         string
	Address       string
}

// Split partitions a checkout cart into one sub-order per distinct vendor
// and builds the compound order record. It walks the cart once: the first
// item of a vendor creates that vendor's sub-order shell, every item appends
// a line-item snapshot and accumulates the sub-order subtotal. Items without
// a vendor reference land in the sentinel "unknown" vendor. TotalPrice is
// summed over the flat cart, independently of the per-vendor subtotals.
//
// Split performs no I/O; validation failures are returned before any write
// could happen.
func Split(items []cart.Item, info CheckoutInfo, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if info.Phone == "" {
		return nil, &ValidationError{Field: "phone"}
	}
	if info.Address == "" {
		return nil, &ValidationError{Field: "address"}
	}

	byVendor := make(map[string]*VendorSubOrder)
	vendorIDs := make([]string, 0, 4) // first-occurrence order
	total := decimal.Zero

	for _, item := range items {
		vendorID := item.VendorID
		vendorName := item.VendorName
		if vendorID == "" {
			vendorID = UnknownVendorID
		}
		if vendorName == "" {
			vendorName = UnknownVendorName
		}

		sub, ok := byVendor[vendorID]
		if !ok {
			sub = &VendorSubOrder{
				VendorID:   vendorID,
				VendorName: vendorName,
				Subtotal:   decimal.Zero,
				Status:     StatusPending,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			byVendor[vendorID] = sub
			vendorIDs = append(vendorIDs, vendorID)
		}

		sub.Items = append(sub.Items, LineItem{
			ItemID:    item.ItemID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Category:  item.Category,
		})
		sub.Subtotal = sub.Subtotal.Add(item.Total())
		total = total.Add(item.Total())
	}

	vendorOrders := make([]VendorSubOrder, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		vendorOrders = append(vendorOrders, *byVendor[id])
	}

	return &Order{
		ID:              uuid.New().String(),
		CustomerID:      info.CustomerID,
		CustomerName:    info.CustomerName,
		CustomerEmail:   info.CustomerEmail,
		CustomerPhone:   info.Phone,
		CustomerAddress: info.Address,
		VendorOrders:    vendorOrders,
		TotalPrice:      total,
		PaymentMethod:   PaymentCashOnDelivery,
		CreatedAt:       now,
	}, nil
}

// SortNewestFirst orders o descending by EffectiveTime. The sort is stable,
// so equally-dated records (including undated legacy ones, which all share
// the zero time and end up last) keep their relative order.
func SortNewestFirst(o []Order) {
	sort.SliceStable(o, func(i, j int) bool {
		return o[i].EffectiveTime().After(o[j].EffectiveTime())
	})
}
