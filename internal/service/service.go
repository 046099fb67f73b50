// Package service holds the book, review and account use cases. Every
// method that reads or writes books or reviews runs the access policy first.
package service

import (
	"context"

	"github.com/Clark-Hu/bookreviews/internal/domain"
	"github.com/Clark-Hu/bookreviews/internal/repository"
)

// BookStore is the subset of the books repository used by the services.
type BookStore interface {
	ListWithRatings(ctx context.Context) ([]domain.RatedBook, error)
	GetWithRating(ctx context.Context, id int64) (domain.RatedBook, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// ReviewStore is the subset of the reviews repository used by the services.
type ReviewStore interface {
	Create(ctx context.Context, params repository.ReviewCreateParams) (domain.Review, error)
	ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error)
}

// UserStore is the subset of the users repository used by Accounts.
type UserStore interface {
	Create(ctx context.Context, params repository.UserCreateParams) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenStore persists the 1:1 user token.
type TokenStore interface {
	GetOrCreate(ctx context.Context, userID int64, candidate string) (string, error)
	UserByKey(ctx context.Context, key string) (domain.User, error)
}

var (
	_ BookStore   = (*repository.BooksRepository)(nil)
	_ ReviewStore = (*repository.ReviewsRepository)(nil)
	_ UserStore   = (*repository.UsersRepository)(nil)
	_ TokenStore  = (*repository.TokensRepository)(nil)
)
