package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Clark-Hu/bookreviews/internal/access"
	"github.com/Clark-Hu/bookreviews/internal/domain"
	domainerrors "github.com/Clark-Hu/bookreviews/internal/errors"
	"github.com/Clark-Hu/bookreviews/internal/repository"
	"github.com/Clark-Hu/bookreviews/internal/sanitize"
	"github.com/Clark-Hu/bookreviews/internal/validation"
)

// CreateReviewInput is the client-supplied part of a review. Pointers tell a
// missing field apart from a zero value.
type CreateReviewInput struct {
	BookID  *int64  `json:"book_id" validate:"required"`
	Rating  *int    `json:"rating" validate:"required"`
	Comment *string `json:"comment"`
}

var ratingRangeMessage = fmt.Sprintf("must be between %d and %d", domain.MinRating, domain.MaxRating)

// Reviews creates and lists book reviews.
type Reviews struct {
	books     BookStore
	reviews   ReviewStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewReviews constructs the review service.
func NewReviews(books BookStore, reviews ReviewStore, v *validation.Validator, logger *slog.Logger) *Reviews {
	return &Reviews{books: books, reviews: reviews, validator: v, logger: logger}
}

// Create stores a review written by user. An unknown book is reported as
// NotFound even when other fields are also invalid.
func (s *Reviews) Create(ctx context.Context, user *domain.User, in CreateReviewInput) (domain.Review, error) {
	if err := access.Check(user, access.CreateReview); err != nil {
		return domain.Review{}, err
	}

	fields, err := s.validator.FieldErrors(in)
	if err != nil {
		return domain.Review{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to validate review")
	}

	if in.Rating != nil && !domain.ValidRating(*in.Rating) {
		if fields == nil {
			fields = make(map[string]string, 1)
		}
		fields["rating"] = ratingRangeMessage
	}

	if _, bad := fields["book_id"]; !bad {
		if err := s.requireBook(ctx, *in.BookID); err != nil {
			return domain.Review{}, err
		}
	}
	if len(fields) > 0 {
		return domain.Review{}, domainerrors.ValidationWithDetails("validation failed", fields)
	}

	var comment string
	if in.Comment != nil {
		comment = sanitize.Comment(*in.Comment)
	}

	review, err := s.reviews.Create(ctx, repository.ReviewCreateParams{
		BookID:  *in.BookID,
		UserID:  user.ID,
		Rating:  *in.Rating,
		Comment: comment,
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrReferenceMissing):
		// book deleted between the existence check and the insert
		return domain.Review{}, domainerrors.NotFound("Book not found")
	case errors.Is(err, repository.ErrCheckViolation):
		return domain.Review{}, domainerrors.FieldError("rating", ratingRangeMessage)
	default:
		return domain.Review{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create review")
	}

	s.logger.InfoContext(ctx, "review created",
		slog.Int64("review_id", review.ID),
		slog.Int64("book_id", review.BookID),
		slog.Int64("user_id", review.UserID),
		slog.Int("rating", review.Rating),
	)
	return review, nil
}

// ListForBook returns a book's reviews newest first. A book without reviews
// yields an empty slice; an unknown book yields NotFound.
func (s *Reviews) ListForBook(ctx context.Context, user *domain.User, bookID int64) ([]domain.Review, error) {
	if err := access.Check(user, access.ListReviews); err != nil {
		return nil, err
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByBook(ctx, bookID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to list reviews")
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

func (s *Reviews) requireBook(ctx context.Context, id int64) error {
	exists, err := s.books.Exists(ctx, id)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to look up book")
	}
	if !exists {
		return domainerrors.NotFound("Book not found")
	}
	return nil
}
