// Package cart models the browsing-session cart: a flat list of selected
// catalog items with quantities. The cart is session-local state — it is
// never written to the order tables, only serialized into a per-customer
// key-value slot so it survives a reload.
package cart

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Item is one selected catalog item with its chosen quantity. Field names in
// JSON match the persisted slot format used by the storefront clients.
type Item struct {
	ItemID     string          `json:"id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"price"`
	Quantity   int             `json:"qty"`
	VendorID   string          `json:"vendorId"`
	VendorName string          `json:"vendorName"`
	Category   string          `json:"category"`
	ImageURL   string          `json:"imageUrl"`
}

// Total returns unit price times quantity for this line.
func (i Item) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered list of items. The zero value is an empty cart.
type Cart struct {
	Items []Item
}

// Add appends an item, merging quantities when the same catalog item is
// already present.
func (c *Cart) Add(item Item) {
	for i := range c.Items {
		if c.Items[i].ItemID == item.ItemID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// ChangeQuantity adjusts the quantity of the given item by delta. An item
// whose quantity drops to zero or below is removed from the cart.
func (c *Cart) ChangeQuantity(itemID string, delta int) {
	for i := range c.Items {
		if c.Items[i].ItemID != itemID {
			continue
		}
		c.Items[i].Quantity += delta
		if c.Items[i].Quantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
		return
	}
}

// Remove deletes the given item regardless of quantity.
func (c *Cart) Remove(itemID string) {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Empty reports whether the cart holds no items.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Total sums price times quantity over every line.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Total())
	}
	return total
}

// Encode serializes the item list for the persisted slot.
func Encode(items []Item) ([]byte, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "encode cart")
	}
	return data, nil
}

// Decode parses a persisted slot back into items. Empty input yields an
// empty cart rather than an error.
func Decode(data []byte) ([]Item, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}
	return items, nil
}
