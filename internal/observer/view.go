// Package observer implements the live order views: a subscription hub that
// re-delivers the full current snapshot of matching orders on every change,
// and the pure view derivations both clients render from. Consumers treat
// each delivery as authoritative and total, never incremental.
package observer

import "github.com/foodstore/foodstore-api/internal/domain/order"

// CustomerView returns the customer's orders ready to render: whole orders,
// newest first. The input slice is not mutated; deriving the view twice from
// the same snapshot yields identical output.
func CustomerView(orders []order.Order) []order.Order {
	view := make([]order.Order, len(orders))
	copy(view, orders)
	order.SortNewestFirst(view)
	return view
}

// VendorView projects each order down to the vendor's own sub-orders,
// dropping orders that contain none, and sorts newest first. Sibling
// sub-orders are never exposed to the vendor.
func VendorView(orders []order.Order, vendorID string) []order.Order {
	view := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		var mine []order.VendorSubOrder
		for _, sub := range o.VendorOrders {
			if sub.VendorID == vendorID {
				mine = append(mine, sub)
			}
		}
		if len(mine) == 0 {
			continue
		}
		o.VendorOrders = mine
		view = append(view, o)
	}
	order.SortNewestFirst(view)
	return view
}

// PendingCount tallies pending sub-orders across a vendor view, feeding the
// new-orders badge.
func PendingCount(view []order.Order) int {
	count := 0
	for _, o := range view {
		for _, sub := range o.VendorOrders {
			if sub.Status == order.StatusPending {
				count++
			}
		}
	}
	return count
}
