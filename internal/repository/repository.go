package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/bookreviews/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a unique constraint was violated.
	ErrConflict = errors.New("repository: conflict")
	// ErrReferenceMissing indicates a foreign key pointed at a missing row.
	ErrReferenceMissing = errors.New("repository: referenced row missing")
	// ErrCheckViolation indicates a CHECK constraint rejected the row.
	ErrCheckViolation = errors.New("repository: check constraint violated")
)

// ConstraintError wraps a sentinel with the name of the violated constraint.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return e.Kind.Error() + " (" + e.Constraint + ")"
}

func (e *ConstraintError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Books   *BooksRepository
	Reviews *ReviewsRepository
	Users   *UsersRepository
	Tokens  *TokensRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Books:   &BooksRepository{pool: pool},
		Reviews: &ReviewsRepository{pool: pool},
		Users:   &UsersRepository{pool: pool},
		Tokens:  &TokensRepository{pool: pool},
	}
}

// translateError maps pgx and postgres errors onto the package sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &ConstraintError{Kind: ErrConflict, Constraint: pgErr.ConstraintName, Err: err}
		case "23503":
			return &ConstraintError{Kind: ErrReferenceMissing, Constraint: pgErr.ConstraintName, Err: err}
		case "23514":
			return &ConstraintError{Kind: ErrCheckViolation, Constraint: pgErr.ConstraintName, Err: err}
		}
	}
	return err
}
