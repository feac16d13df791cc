package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/foodstore/foodstore-api/internal/domain/cart"
)

// CartStore is the per-customer persisted cart slot.
type CartStore interface {
	Load(ctx context.Context, customerID string) ([]cart.Item, error)
	Save(ctx context.Context, customerID string, items []cart.Item) error
	Clear(ctx context.Context, customerID string) error
}

// Publisher is notified after every committed order mutation so live
// subscribers can re-deliver their snapshots.
type Publisher interface {
	OrderChanged(orderID string)
}

// Service drives the order lifecycle: checkout (split + persist + clear
// cart) and sub-order status transitions.
type Service struct {
	orders Repository
	carts  CartStore
	pub    Publisher
	now    func() time.Time
}

// NewService creates an order Service with the required dependencies.
func NewService(orders Repository, carts CartStore, pub Publisher) *Service {
	return &Service{
		orders: orders,
		carts:  carts,
		pub:    pub,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Checkout loads the customer's cart slot, splits it into per-vendor
// sub-orders, persists the compound order, and clears the slot. A store
// failure surfaces as a PersistenceError and leaves the cart untouched so
// the customer can retry.
func (s *Service) Checkout(ctx context.Context, info CheckoutInfo) (*Order, error) {
	items, err := s.carts.Load(ctx, info.CustomerID)
	if err != nil {
		return nil, &PersistenceError{Op: "load cart", Err: err}
	}

	o, err := Split(items, info, s.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, &PersistenceError{Op: "create order", Err: err}
	}
	if err := s.carts.Clear(ctx, info.CustomerID); err != nil {
		// The order is already placed; a stale cart slot is recoverable.
		return nil, &PersistenceError{Op: "clear cart", Err: err}
	}

	s.pub.OrderChanged(o.ID)
	return o, nil
}

// Transition moves the sub-order identified by (orderID, vendorID) to the
// target status. The target must be the immediate successor of the current
// status, or a cancellation of a non-terminal state; anything else is
// rejected with an InvalidTransitionError. Sibling sub-orders are untouched.
func (s *Service) Transition(ctx context.Context, orderID, vendorID string, target Status) (*Order, error) {
	o, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	sub := o.SubOrder(vendorID)
	if sub == nil {
		return nil, &NotFoundError{Resource: "sub-order for vendor", ID: vendorID}
	}
	if !sub.Status.CanTransition(target) {
		return nil, &InvalidTransitionError{From: sub.Status, To: target}
	}

	updatedAt := s.now().UTC()
	if err := s.orders.UpdateSubOrderStatus(ctx, orderID, vendorID, target, updatedAt); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "update sub-order status", Err: err}
	}

	sub.Status = target
	sub.UpdatedAt = updatedAt
	s.pub.OrderChanged(orderID)
	return o, nil
}

// Get returns a single order by id.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.getOrder(ctx, orderID)
}

// CustomerOrders returns every order placed by the customer, newest first.
func (s *Service) CustomerOrders(ctx context.Context, customerID string) ([]Order, error) {
	list, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, &PersistenceError{Op: "list customer orders", Err: err}
	}
	SortNewestFirst(list)
	return list, nil
}

// VendorOrders returns every order containing a sub-order for the vendor,
// newest first. Orders are returned whole; callers that must hide sibling
// sub-orders project them through the observer view.
func (s *Service) VendorOrders(ctx context.Context, vendorID string) ([]Order, error) {
	list, err := s.orders.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, &PersistenceError{Op: "list vendor orders", Err: err}
	}
	SortNewestFirst(list)
	return list, nil
}

func (s *Service) getOrder(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "get order", Err: err}
	}
	return o, nil
}
