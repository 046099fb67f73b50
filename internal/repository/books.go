package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/bookreviews/internal/domain"
)

// BooksRepository provides persistence helpers for books.
type BooksRepository struct {
	pool *pgxpool.Pool
}

const bookColumns = `
    b.id,
    b.title,
    b.author,
    b.description,
    b.content,
    b.published_date,
    b.created_at
`

// Rating sums and counts come from one LEFT JOIN pass; books without
// reviews yield 0/0.
const ratedBookSelect = `
    SELECT ` + bookColumns + `,
           COALESCE(SUM(r.rating), 0)::int8 AS rating_sum,
           COUNT(r.id)::int8 AS review_count
    FROM books b
    LEFT JOIN reviews r ON r.book_id = b.id
`

// BookCreateParams bundles the fields required to create a book.
type BookCreateParams struct {
	Title         string
	Author        string
	Description   string
	Content       string
	PublishedDate time.Time
}

// Create inserts a new book row and returns the stored entity.
func (r *BooksRepository) Create(ctx context.Context, params BookCreateParams) (domain.Book, error) {
	const query = `
        INSERT INTO books AS b (title, author, description, content, published_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING ` + bookColumns

	row := r.pool.QueryRow(ctx, query, params.Title, params.Author, params.Description, params.Content, params.PublishedDate)
	book, err := scanBook(row)
	if err != nil {
		return domain.Book{}, translateError(err)
	}
	return book, nil
}

// GetByID fetches a book by its identifier.
func (r *BooksRepository) GetByID(ctx context.Context, id int64) (domain.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books b WHERE b.id = $1`, bookColumns)
	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.Book{}, translateError(err)
	}
	return book, nil
}

// Exists reports whether a book with id is stored.
func (r *BooksRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("book exists: %w", err)
	}
	return exists, nil
}

// ListWithRatings returns every book with its rating inputs, newest
// publication first.
func (r *BooksRepository) ListWithRatings(ctx context.Context) ([]domain.RatedBook, error) {
	query := ratedBookSelect + `
    GROUP BY b.id
    ORDER BY b.published_date DESC, b.id DESC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	items := make([]domain.RatedBook, 0)
	for rows.Next() {
		book, err := scanRatedBook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetWithRating fetches one book with its rating inputs.
func (r *BooksRepository) GetWithRating(ctx context.Context, id int64) (domain.RatedBook, error) {
	query := ratedBookSelect + `
    WHERE b.id = $1
    GROUP BY b.id
    `
	book, err := scanRatedBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return domain.RatedBook{}, translateError(err)
	}
	return book, nil
}

// Delete removes a book; its reviews go with it.
func (r *BooksRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (domain.Book, error) {
	var book domain.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Content,
		&book.PublishedDate,
		&book.CreatedAt,
	)
	return book, err
}

func scanRatedBook(row pgx.Row) (domain.RatedBook, error) {
	var book domain.RatedBook
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Content,
		&book.PublishedDate,
		&book.CreatedAt,
		&book.RatingSum,
		&book.ReviewCount,
	)
	return book, err
}
