package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodstore/foodstore-api/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, customer_id, customer_name, customer_email, customer_phone,
		 customer_address, vendor_orders, total_price, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectOrderSQL = `SELECT id, customer_id, customer_name, customer_email,
		customer_phone, customer_address, vendor_orders, total_price,
		payment_method, created_at FROM orders`

	// updateSubOrderSQL rewrites only the matching element of the
	// vendor_orders array inside a single UPDATE, so concurrent updates to
	// two different sub-orders of the same order cannot lose each other.
	updateSubOrderSQL = `UPDATE orders SET vendor_orders = (
		SELECT jsonb_agg(
			CASE WHEN elem->>'vendorId' = $2
				THEN jsonb_set(jsonb_set(elem, '{status}', to_jsonb($3::text)),
					'{updatedAt}', to_jsonb($4::text))
				ELSE elem
			END)
		FROM jsonb_array_elements(vendor_orders) AS elem)
		WHERE id = $1
		  AND vendor_orders @> $5`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. The
// vendor sub-orders live in a JSONB column shaped exactly like the wire
// format, so legacy documents imported from the old store stay readable.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new compound order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	subOrders, err := json.Marshal(o.VendorOrders)
	if err != nil {
		return errors.Wrap(err, "marshaling vendor orders")
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.CustomerID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.CustomerAddress, subOrders, o.TotalPrice, o.PaymentMethod, o.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "creating order %q", o.ID)
	}
	return nil
}

// GetByID returns a single order by id.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	row := r.pool.QueryRow(ctx, selectOrderSQL+` WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &order.NotFoundError{Resource: "order", ID: id}
		}
		return nil, errors.Wrapf(err, "getting order %q", id)
	}
	return o, nil
}

// ListByCustomer returns every order placed by the customer, in store order.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, selectOrderSQL+` WHERE customer_id = $1`, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "listing customer orders")
	}
	return collectOrders(rows)
}

// ListByVendor returns every order containing a sub-order for the vendor,
// matched with a JSONB containment filter over the sub-order array.
func (r *OrderRepository) ListByVendor(ctx context.Context, vendorID string) ([]order.Order, error) {
	probe, err := vendorProbe(vendorID)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, selectOrderSQL+` WHERE vendor_orders @> $1`, probe)
	if err != nil {
		return nil, errors.Wrap(err, "listing vendor orders")
	}
	return collectOrders(rows)
}

// UpdateSubOrderStatus sets status and updatedAt on the single sub-order
// identified by (orderID, vendorID). Siblings are untouched.
func (r *OrderRepository) UpdateSubOrderStatus(ctx context.Context, orderID, vendorID string, status order.Status, updatedAt time.Time) error {
	probe, err := vendorProbe(vendorID)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, updateSubOrderSQL,
		orderID, vendorID, string(status), updatedAt.Format(time.RFC3339Nano), probe,
	)
	if err != nil {
		return errors.Wrapf(err, "updating sub-order %s/%s", orderID, vendorID)
	}
	if tag.RowsAffected() == 0 {
		return &order.NotFoundError{Resource: "sub-order for vendor", ID: vendorID}
	}
	return nil
}

// vendorProbe builds the JSONB containment operand matching any sub-order
// array that includes the vendor.
func vendorProbe(vendorID string) ([]byte, error) {
	probe, err := json.Marshal([]map[string]string{{"vendorId": vendorID}})
	if err != nil {
		return nil, errors.Wrap(err, "marshaling vendor probe")
	}
	return probe, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		o         order.Order
		subOrders []byte
	)
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerPhone, &o.CustomerAddress, &subOrders, &o.TotalPrice,
		&o.PaymentMethod, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subOrders, &o.VendorOrders); err != nil {
		return nil, errors.Wrap(err, "unmarshaling vendor orders")
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	var list []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning order")
		}
		list = append(list, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating orders")
	}
	return list, nil
}
