package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/bookreviews/internal/domain"
)

// UsersRepository provides persistence helpers for user accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `
    u.id,
    u.email,
    u.username,
    u.first_name,
    u.last_name,
    u.role,
    u.is_active,
    u.password_hash,
    u.date_joined
`

// UserCreateParams bundles the fields required to create a user.
type UserCreateParams struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	Role         domain.Role
	IsActive     bool
	PasswordHash string
}

// Create inserts a user. Duplicate email or username yields ErrConflict.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	if !params.Role.Valid() {
		return domain.User{}, fmt.Errorf("create user: invalid role %q", params.Role)
	}
	const query = `
        INSERT INTO users AS u (email, username, first_name, last_name, role, is_active, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		strings.ToLower(params.Email),
		params.Username,
		params.FirstName,
		params.LastName,
		string(params.Role),
		params.IsActive,
		params.PasswordHash,
	)
	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, translateError(err)
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.User{}, translateError(err)
	}
	return user, nil
}

// GetByEmail fetches a user by login email, case-insensitively.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`
	user, err := scanUser(r.pool.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return domain.User{}, translateError(err)
	}
	return user, nil
}

// SetActive toggles the active flag.
func (r *UsersRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		user domain.User
		role string
	)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&role,
		&user.IsActive,
		&user.PasswordHash,
		&user.DateJoined,
	); err != nil {
		return domain.User{}, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user %d: %w", user.ID, err)
	}
	user.Role = parsed
	return user, nil
}
