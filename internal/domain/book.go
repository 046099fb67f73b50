package domain

import "time"

// Book is a catalogue entry. Reviews are removed with it.
type Book struct {
	ID            int64
	Title         string
	Author        string
	Description   string
	Content       string
	PublishedDate time.Time
	CreatedAt     time.Time
}

// RatedBook pairs a book with the raw inputs of its rating aggregate.
type RatedBook struct {
	Book
	RatingSum   int64
	ReviewCount int64
}
