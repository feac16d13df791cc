package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodstore/foodstore-api/internal/domain/catalog"
)

const (
	selectShopSQL = `SELECT id, vendor_id, name, description, image_url,
		is_active, created_at FROM shops`

	selectItemSQL = `SELECT i.id, i.shop_id, i.vendor_id, i.name, i.price,
		i.category, i.image_url, i.is_available, i.created_at FROM items i`

	// Storefront browsing only shows items of active shops whose vendor has
	// been verified by an admin.
	listStorefrontSQL = selectItemSQL + `
		JOIN shops s ON s.id = i.shop_id
		JOIN users u ON u.id = s.vendor_id
		WHERE i.is_available AND s.is_active AND u.is_verified
		ORDER BY i.category, i.name`
)

var (
	_ catalog.ShopRepository = (*ShopRepository)(nil)
	_ catalog.ItemRepository = (*ItemRepository)(nil)
)

// ShopRepository implements catalog.ShopRepository backed by PostgreSQL.
type ShopRepository struct {
	pool *pgxpool.Pool
}

// NewShopRepository returns a ShopRepository that uses the given pool.
func NewShopRepository(pool *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{pool: pool}
}

// Upsert creates the vendor's shop or updates it in place, keyed by the
// vendor (one shop per vendor).
func (r *ShopRepository) Upsert(ctx context.Context, s *catalog.Shop) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO shops
		(id, vendor_id, name, description, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (vendor_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			image_url = EXCLUDED.image_url,
			is_active = EXCLUDED.is_active`,
		s.ID, s.VendorID, s.Name, s.Description, s.ImageURL, s.Active,
	)
	if err != nil {
		return errors.Wrapf(err, "upserting shop for vendor %q", s.VendorID)
	}
	return nil
}

// GetByVendor returns the vendor's shop.
func (r *ShopRepository) GetByVendor(ctx context.Context, vendorID string) (*catalog.Shop, error) {
	row := r.pool.QueryRow(ctx, selectShopSQL+` WHERE vendor_id = $1`, vendorID)
	s, err := scanShop(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrShopNotFound
		}
		return nil, errors.Wrapf(err, "getting shop for vendor %q", vendorID)
	}
	return s, nil
}

// ListActive returns every active shop.
func (r *ShopRepository) ListActive(ctx context.Context) ([]catalog.Shop, error) {
	rows, err := r.pool.Query(ctx, selectShopSQL+` WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "listing shops")
	}
	defer rows.Close()

	var list []catalog.Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning shop")
		}
		list = append(list, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating shops")
	}
	return list, nil
}

// ItemRepository implements catalog.ItemRepository backed by PostgreSQL.
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository returns an ItemRepository that uses the given pool.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// Create inserts a new catalog item.
func (r *ItemRepository) Create(ctx context.Context, it *catalog.Item) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO items
		(id, shop_id, vendor_id, name, price, category, image_url, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		it.ID, it.ShopID, it.VendorID, it.Name, it.Price, it.Category,
		it.ImageURL, it.Available,
	)
	if err != nil {
		return errors.Wrapf(err, "creating item %q", it.ID)
	}
	return nil
}

// Update rewrites the mutable item fields, scoped to the owning vendor.
func (r *ItemRepository) Update(ctx context.Context, it *catalog.Item) error {
	tag, err := r.pool.Exec(ctx, `UPDATE items
		SET name = $3, price = $4, category = $5, image_url = $6, is_available = $7
		WHERE id = $1 AND vendor_id = $2`,
		it.ID, it.VendorID, it.Name, it.Price, it.Category, it.ImageURL, it.Available,
	)
	if err != nil {
		return errors.Wrapf(err, "updating item %q", it.ID)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

// Delete removes an item, scoped to the owning vendor.
func (r *ItemRepository) Delete(ctx context.Context, id, vendorID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1 AND vendor_id = $2`, id, vendorID)
	if err != nil {
		return errors.Wrapf(err, "deleting item %q", id)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrItemNotFound
	}
	return nil
}

// ListByShop returns every item of one shop, including unavailable ones
// (the vendor's management view).
func (r *ItemRepository) ListByShop(ctx context.Context, shopID string) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx, selectItemSQL+` WHERE i.shop_id = $1 ORDER BY i.name`, shopID)
	if err != nil {
		return nil, errors.Wrap(err, "listing shop items")
	}
	return collectItems(rows)
}

// ListStorefront returns the public browsing view.
func (r *ItemRepository) ListStorefront(ctx context.Context) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx, listStorefrontSQL)
	if err != nil {
		return nil, errors.Wrap(err, "listing storefront items")
	}
	return collectItems(rows)
}

func scanShop(row pgx.Row) (*catalog.Shop, error) {
	var s catalog.Shop
	err := row.Scan(&s.ID, &s.VendorID, &s.Name, &s.Description, &s.ImageURL,
		&s.Active, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectItems(rows pgx.Rows) ([]catalog.Item, error) {
	defer rows.Close()

	var list []catalog.Item
	for rows.Next() {
		var it catalog.Item
		err := rows.Scan(&it.ID, &it.ShopID, &it.VendorID, &it.Name, &it.Price,
			&it.Category, &it.ImageURL, &it.Available, &it.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "scanning item")
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating items")
	}
	return list, nil
}
