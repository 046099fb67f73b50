package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/bookreviews/internal/domain"
)

// ReviewsRepository provides helpers for book reviews.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

// ReviewCreateParams captures the payload required to insert a review.
// Comment must already be sanitized.
type ReviewCreateParams struct {
	BookID  int64
	UserID  int64
	Rating  int
	Comment string
}

// Create inserts a review in a single statement. A missing book or user
// surfaces as ErrReferenceMissing.
func (r *ReviewsRepository) Create(ctx context.Context, params ReviewCreateParams) (domain.Review, error) {
	const query = `
        INSERT INTO reviews (book_id, user_id, rating, comment)
        VALUES ($1,$2,$3,$4)
        RETURNING id, book_id, user_id, rating, comment, created_at
    `

	var review domain.Review
	err := r.pool.QueryRow(ctx, query, params.BookID, params.UserID, params.Rating, params.Comment).Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return domain.Review{}, translateError(err)
	}
	return review, nil
}

// ListByBook returns a book's reviews with author names, newest first. An
// unknown book and a book without reviews both yield an empty slice.
func (r *ReviewsRepository) ListByBook(ctx context.Context, bookID int64) ([]domain.Review, error) {
	const query = `
        SELECT r.id, r.book_id, r.user_id, r.rating, r.comment, r.created_at,
               u.first_name, u.last_name, u.username
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.book_id = $1
        ORDER BY r.created_at DESC, r.id DESC
    `
	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var (
			review domain.Review
			author domain.User
		)
		if err := rows.Scan(
			&review.ID,
			&review.BookID,
			&review.UserID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
			&author.FirstName,
			&author.LastName,
			&author.Username,
		); err != nil {
			return nil, err
		}
		review.AuthorName = author.FullName()
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
