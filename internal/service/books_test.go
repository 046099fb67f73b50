package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/bookreviews/internal/domain"
	domainerrors "github.com/Clark-Hu/bookreviews/internal/errors"
	"github.com/Clark-Hu/bookreviews/internal/logger"
)

func seededBooks() (*fakeBooks, *fakeReviews) {
	reviews := &fakeReviews{}
	books := newFakeBooks(reviews,
		domain.Book{ID: 1, Title: "Old", Author: "A", PublishedDate: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), Content: "old text"},
		domain.Book{ID: 2, Title: "New", Author: "B", PublishedDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	)
	return books, reviews
}

func TestBooks_List(t *testing.T) {
	books, reviews := seededBooks()
	ctx := context.Background()
	for _, v := range []int{4, 5} {
		_, err := reviews.Create(ctx, reviewParams(1, v))
		require.NoError(t, err)
	}

	svc := NewBooks(books, logger.Discard())
	got, err := svc.List(ctx, clientUser())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(2), got[0].ID, "newest published first")
	assert.Equal(t, 0.0, got[0].AverageRating)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, 4.5, got[1].AverageRating)
}

func TestBooks_Get(t *testing.T) {
	books, reviews := seededBooks()
	ctx := context.Background()
	for _, v := range []int{1, 2, 2} {
		_, err := reviews.Create(ctx, reviewParams(1, v))
		require.NoError(t, err)
	}

	svc := NewBooks(books, logger.Discard())
	detail, err := svc.Get(ctx, clientUser(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Old", detail.Title)
	assert.Equal(t, "old text", detail.Content)
	assert.Equal(t, int64(3), detail.ReviewCount)
	assert.Equal(t, 1.5, detail.AverageRating)

	empty, err := svc.Get(ctx, clientUser(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.ReviewCount)
	assert.Equal(t, 0.0, empty.AverageRating)

	_, err = svc.Get(ctx, clientUser(), 999)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestBooks_AccessDenied(t *testing.T) {
	books, _ := seededBooks()
	books.err = errors.New("store must not be touched")
	svc := NewBooks(books, logger.Discard())
	ctx := context.Background()

	_, err := svc.List(ctx, nil)
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	_, err = svc.Get(ctx, adminUser(), 1)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	inactive := clientUser()
	inactive.IsActive = false
	_, err = svc.List(ctx, inactive)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestBooks_StoreFailure(t *testing.T) {
	books, _ := seededBooks()
	books.err = errors.New("connection reset")
	svc := NewBooks(books, logger.Discard())

	_, err := svc.List(context.Background(), clientUser())
	assert.ErrorIs(t, err, domainerrors.ErrInternal)
}
