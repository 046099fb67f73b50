package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Clark-Hu/bookreviews/internal/access"
	"github.com/Clark-Hu/bookreviews/internal/domain"
	domainerrors "github.com/Clark-Hu/bookreviews/internal/errors"
	"github.com/Clark-Hu/bookreviews/internal/rating"
	"github.com/Clark-Hu/bookreviews/internal/repository"
)

// BookSummary is a list entry.
type BookSummary struct {
	ID            int64
	Title         string
	Author        string
	Description   string
	AverageRating float64
}

// BookDetail is the full view of one book.
type BookDetail struct {
	BookSummary
	Content       string
	PublishedDate time.Time
	ReviewCount   int64
}

// Books answers catalogue queries with freshly computed ratings.
type Books struct {
	books  BookStore
	logger *slog.Logger
}

// NewBooks constructs the book query service.
func NewBooks(books BookStore, logger *slog.Logger) *Books {
	return &Books{books: books, logger: logger}
}

// List returns every book, most recently published first.
func (s *Books) List(ctx context.Context, user *domain.User) ([]BookSummary, error) {
	if err := access.Check(user, access.ListBooks); err != nil {
		return nil, err
	}

	rated, err := s.books.ListWithRatings(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list books")
	}

	out := make([]BookSummary, 0, len(rated))
	for _, b := range rated {
		out = append(out, summarize(b))
	}
	return out, nil
}

// Get returns one book with its rating and review count.
func (s *Books) Get(ctx context.Context, user *domain.User, id int64) (BookDetail, error) {
	if err := access.Check(user, access.ViewBook); err != nil {
		return BookDetail{}, err
	}

	rated, err := s.books.GetWithRating(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return BookDetail{}, domainerrors.NotFound("Book not found")
		}
		return BookDetail{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load book")
	}

	return BookDetail{
		BookSummary:   summarize(rated),
		Content:       rated.Content,
		PublishedDate: rated.PublishedDate,
		ReviewCount:   rating.ForBook(rated).ReviewCount(),
	}, nil
}

func summarize(b domain.RatedBook) BookSummary {
	return BookSummary{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		AverageRating: rating.ForBook(b).Average(),
	}
}
