package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating of a book. It is never updated once stored.
type Review struct {
	ID         int64
	BookID     int64
	UserID     int64
	Rating     int
	Comment    string
	CreatedAt  time.Time
	AuthorName string
}

// ValidRating reports whether v is an accepted star rating.
func ValidRating(v int) bool {
	return v >= MinRating && v <= MaxRating
}
