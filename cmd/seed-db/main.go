// Command seed-db provisions a development database: demo users for every
// role, their shops and menu items, and a bootstrap admin session token.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/foodstore/foodstore-api/internal/storage/postgres"
)

type seedUser struct {
	ID       string
	Email    string
	Name     string
	Role     string
	Verified bool
}

type seedShop struct {
	ID          string
	VendorID    string
	Name        string
	Description string
}

type seedItem struct {
	ID       string
	ShopID   string
	VendorID string
	Name     string
	Price    string
	Category string
}

var users = []seedUser{
	{ID: "admin-1", Email: "admin@foodstore.dev", Name: "Store Admin", Role: "admin", Verified: true},
	{ID: "vendor-burger", Email: "burger@foodstore.dev", Name: "Burger Barn", Role: "vendor", Verified: true},
	{ID: "vendor-pizza", Email: "pizza@foodstore.dev", Name: "Pizza Planet", Role: "vendor", Verified: true},
	{ID: "vendor-new", Email: "newshop@foodstore.dev", Name: "New Shop", Role: "vendor", Verified: false},
	{ID: "customer-demo", Email: "demo@foodstore.dev", Name: "Demo Customer", Role: "customer", Verified: true},
}

var shops = []seedShop{
	{ID: "shop-burger", VendorID: "vendor-burger", Name: "Burger Barn", Description: "Smashed patties and shakes"},
	{ID: "shop-pizza", VendorID: "vendor-pizza", Name: "Pizza Planet", Description: "Wood-fired pies"},
}

var items = []seedItem{
	{ID: "item-classic-burger", ShopID: "shop-burger", VendorID: "vendor-burger", Name: "Classic Burger", Price: "8.50", Category: "Burgers"},
	{ID: "item-cheese-burger", ShopID: "shop-burger", VendorID: "vendor-burger", Name: "Cheese Burger", Price: "9.50", Category: "Burgers"},
	{ID: "item-fries", ShopID: "shop-burger", VendorID: "vendor-burger", Name: "Fries", Price: "3.00", Category: "Sides"},
	{ID: "item-margherita", ShopID: "shop-pizza", VendorID: "vendor-pizza", Name: "Margherita", Price: "11.00", Category: "Pizza"},
	{ID: "item-pepperoni", ShopID: "shop-pizza", VendorID: "vendor-pizza", Name: "Pepperoni", Price: "13.00", Category: "Pizza"},
}

func main() {
	var (
		databaseURL   string
		adminToken    string
		sessionPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&adminToken, "admin-token", "", "bootstrap admin session token to seed (or FOODSTORE_SEED_ADMIN_TOKEN env)")
	flag.StringVar(&sessionPepper, "session-pepper", "", "HMAC pepper for session token hashing (or FOODSTORE_SESSION_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminToken == "" {
		adminToken = os.Getenv("FOODSTORE_SEED_ADMIN_TOKEN")
	}
	if adminToken == "" {
		slog.Error("admin token is required: set --admin-token or FOODSTORE_SEED_ADMIN_TOKEN")
		os.Exit(1)
	}
	if sessionPepper == "" {
		sessionPepper = os.Getenv("FOODSTORE_SESSION_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, adminToken, sessionPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, adminToken, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedUsers(ctx, pool); err != nil {
		return errors.Wrap(err, "seed users")
	}
	if err := seedCatalog(ctx, pool); err != nil {
		return errors.Wrap(err, "seed catalog")
	}
	if err := seedAdminSession(ctx, pool, adminToken, pepper); err != nil {
		return errors.Wrap(err, "seed admin session")
	}

	return nil
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("upserting users", slog.Int("count", len(users)))

	for _, u := range users {
		_, err := pool.Exec(ctx, `INSERT INTO users (id, email, name, role, is_verified)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				email = EXCLUDED.email,
				name = EXCLUDED.name,
				role = EXCLUDED.role,
				is_verified = EXCLUDED.is_verified`,
			u.ID, u.Email, u.Name, u.Role, u.Verified,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert user %s", u.ID)
		}

		slog.Info("upserted user", slog.String("id", u.ID), slog.String("role", u.Role))
	}

	return nil
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("upserting shops", slog.Int("count", len(shops)))

	for _, s := range shops {
		_, err := pool.Exec(ctx, `INSERT INTO shops (id, vendor_id, name, description)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (vendor_id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description`,
			s.ID, s.VendorID, s.Name, s.Description,
		)
		if err != nil {
			return errors.Wrapf(err, "upsert shop %s", s.ID)
		}

		slog.Info("upserted shop", slog.String("id", s.ID), slog.String("name", s.Name))
	}

	slog.Info("upserting items", slog.Int("count", len(items)))

	// Items only depend on the shops upserted above, so they go in parallel.
	g, ctx := errgroup.WithContext(ctx)
	for _, it := range items {
		g.Go(func() error {
			price, err := decimal.NewFromString(it.Price)
			if err != nil {
				return errors.Wrapf(err, "parse price for item %s", it.ID)
			}
			_, err = pool.Exec(ctx, `INSERT INTO items (id, shop_id, vendor_id, name, price, category)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					price = EXCLUDED.price,
					category = EXCLUDED.category`,
				it.ID, it.ShopID, it.VendorID, it.Name, price, it.Category,
			)
			if err != nil {
				return errors.Wrapf(err, "upsert item %s", it.ID)
			}

			slog.Info("upserted item", slog.String("id", it.ID), slog.String("name", it.Name))
			return nil
		})
	}
	return g.Wait()
}

func seedAdminSession(ctx context.Context, pool *pgxpool.Pool, token, pepper string) error {
	slog.Info("seeding bootstrap admin session")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(token))
	tokenHash := hex.EncodeToString(mac.Sum(nil))

	_, err := pool.Exec(ctx, `INSERT INTO sessions (token_hash, user_id)
		VALUES ($1, $2) ON CONFLICT (token_hash) DO NOTHING`,
		tokenHash, "admin-1",
	)
	if err != nil {
		return errors.Wrap(err, "upsert admin session")
	}

	slog.Info("seeded admin session", slog.String("user_id", "admin-1"))

	return nil
}
