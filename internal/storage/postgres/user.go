package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodstore/foodstore-api/internal/domain/user"
)

const selectUserSQL = `SELECT id, email, name, role, is_verified, is_online,
	phone, default_address, photo_url, created_at FROM users`

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new profile document.
func (r *UserRepository) Create(ctx context.Context, p *user.Profile) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users
		(id, email, name, role, is_verified, is_online, phone, default_address, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Email, p.Name, string(p.Role), p.Verified, p.Online,
		p.Phone, p.Address, p.PhotoURL,
	)
	if err != nil {
		return errors.Wrapf(err, "creating user %q", p.ID)
	}
	return nil
}

// GetByID returns a single profile by uid.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.Profile, error) {
	row := r.pool.QueryRow(ctx, selectUserSQL+` WHERE id = $1`, id)
	p, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrapf(err, "getting user %q", id)
	}
	return p, nil
}

// UpdateContact sets the mutable profile fields.
func (r *UserRepository) UpdateContact(ctx context.Context, id, name, phone, address, photoURL string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users
		SET name = $2, phone = $3, default_address = $4, photo_url = $5
		WHERE id = $1`,
		id, name, phone, address, photoURL,
	)
	if err != nil {
		return errors.Wrapf(err, "updating user %q", id)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// SetOnline flips the presence flag.
func (r *UserRepository) SetOnline(ctx context.Context, id string, online bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET is_online = $2 WHERE id = $1`, id, online)
	if err != nil {
		return errors.Wrapf(err, "setting user %q online=%v", id, online)
	}
	return nil
}

// SetVerified flips the verification flag (admin action on vendors).
func (r *UserRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_verified = $2 WHERE id = $1`, id, verified)
	if err != nil {
		return errors.Wrapf(err, "setting user %q verified=%v", id, verified)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// ListByRole returns every profile with the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role user.Role) ([]user.Profile, error) {
	rows, err := r.pool.Query(ctx, selectUserSQL+` WHERE role = $1 ORDER BY created_at`, string(role))
	if err != nil {
		return nil, errors.Wrap(err, "listing users by role")
	}
	defer rows.Close()

	var list []user.Profile
	for rows.Next() {
		p, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning user")
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating users")
	}
	return list, nil
}

func scanUser(row pgx.Row) (*user.Profile, error) {
	var (
		p    user.Profile
		role string
	)
	err := row.Scan(
		&p.ID, &p.Email, &p.Name, &role, &p.Verified, &p.Online,
		&p.Phone, &p.Address, &p.PhotoURL, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Role = user.ParseRole(role)
	return &p, nil
}
