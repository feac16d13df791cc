package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodstore/foodstore-api/internal/domain/user"
	"github.com/foodstore/foodstore-api/internal/handler"
)

var _ handler.SessionRepository = (*SessionRepository)(nil)

// SessionRepository implements handler.SessionRepository backed by
// PostgreSQL. Only HMAC-SHA256 hashes of session tokens are stored.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository returns a SessionRepository that uses the given pool.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create stores a new session for the user.
func (r *SessionRepository) Create(ctx context.Context, tokenHash, userID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (token_hash, user_id) VALUES ($1, $2)`,
		tokenHash, userID,
	)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return nil
}

// FindByHash resolves a token hash to the owning profile and the stored
// hash (re-compared in constant time by the caller).
func (r *SessionRepository) FindByHash(ctx context.Context, tokenHash string) (*handler.SessionInfo, error) {
	row := r.pool.QueryRow(ctx, `SELECT s.token_hash, u.id, u.email, u.name,
		u.role, u.is_verified, u.is_online, u.phone, u.default_address,
		u.photo_url, u.created_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1`, tokenHash)

	var (
		info handler.SessionInfo
		p    user.Profile
		role string
	)
	err := row.Scan(&info.TokenHash, &p.ID, &p.Email, &p.Name, &role,
		&p.Verified, &p.Online, &p.Phone, &p.Address, &p.PhotoURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, handler.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "finding session")
	}
	p.Role = user.ParseRole(role)
	info.User = p
	return &info, nil
}

// Delete removes a session (sign-out).
func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}
