package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/bookreviews/internal/domain"
)

// TokensRepository stores the single API token of each user.
type TokensRepository struct {
	pool *pgxpool.Pool
}

// GetOrCreate returns the user's token, storing candidate if the user has
// none yet.
func (r *TokensRepository) GetOrCreate(ctx context.Context, userID int64, candidate string) (string, error) {
	const query = `
        INSERT INTO auth_tokens (key, user_id)
        VALUES ($1,$2)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING key
    `
	var key string
	if err := r.pool.QueryRow(ctx, query, candidate, userID).Scan(&key); err != nil {
		return "", translateError(err)
	}
	return key, nil
}

// UserByKey resolves a token key to its user.
func (r *TokensRepository) UserByKey(ctx context.Context, key string) (domain.User, error) {
	query := `SELECT ` + userColumns + `
        FROM auth_tokens t
        JOIN users u ON u.id = t.user_id
        WHERE t.key = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, key))
	if err != nil {
		return domain.User{}, translateError(err)
	}
	return user, nil
}
