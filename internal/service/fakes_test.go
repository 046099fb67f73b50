package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Clark-Hu/bookreviews/internal/domain"
	"github.com/Clark-Hu/bookreviews/internal/repository"
)

type fakeBooks struct {
	books map[int64]domain.Book
	store *fakeReviews
	err   error
}

func newFakeBooks(reviews *fakeReviews, books ...domain.Book) *fakeBooks {
	f := &fakeBooks{books: map[int64]domain.Book{}, store: reviews}
	for _, b := range books {
		f.books[b.ID] = b
	}
	return f
}

func (f *fakeBooks) rated(b domain.Book) domain.RatedBook {
	rb := domain.RatedBook{Book: b}
	if f.store != nil {
		for _, r := range f.store.snapshot() {
			if r.BookID == b.ID {
				rb.RatingSum += int64(r.Rating)
				rb.ReviewCount++
			}
		}
	}
	return rb
}

func (f *fakeBooks) ListWithRatings(context.Context) ([]domain.RatedBook, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.RatedBook, 0, len(f.books))
	for _, b := range f.books {
		out = append(out, f.rated(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PublishedDate.Equal(out[j].PublishedDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].PublishedDate.After(out[j].PublishedDate)
	})
	return out, nil
}

func (f *fakeBooks) GetWithRating(_ context.Context, id int64) (domain.RatedBook, error) {
	if f.err != nil {
		return domain.RatedBook{}, f.err
	}
	b, ok := f.books[id]
	if !ok {
		return domain.RatedBook{}, repository.ErrNotFound
	}
	return f.rated(b), nil
}

func (f *fakeBooks) Exists(_ context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.books[id]
	return ok, nil
}

type fakeReviews struct {
	mu        sync.Mutex
	reviews   []domain.Review
	nextID    int64
	createErr error
}

func (f *fakeReviews) snapshot() []domain.Review {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Review(nil), f.reviews...)
}

func (f *fakeReviews) Create(_ context.Context, p repository.ReviewCreateParams) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.Review{}, f.createErr
	}
	f.nextID++
	r := domain.Review{
		ID:        f.nextID,
		BookID:    p.BookID,
		UserID:    p.UserID,
		Rating:    p.Rating,
		Comment:   p.Comment,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, int(f.nextID), 0, time.UTC),
	}
	f.reviews = append(f.reviews, r)
	return r, nil
}

func (f *fakeReviews) ListByBook(_ context.Context, bookID int64) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range f.snapshot() {
		if r.BookID == bookID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeUsers struct {
	byEmail map[string]domain.User
	nextID  int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]domain.User{}}
}

func (f *fakeUsers) Create(_ context.Context, p repository.UserCreateParams) (domain.User, error) {
	email := strings.ToLower(p.Email)
	if _, ok := f.byEmail[email]; ok {
		return domain.User{}, &repository.ConstraintError{Kind: repository.ErrConflict, Constraint: "users_email_key"}
	}
	for _, u := range f.byEmail {
		if u.Username == p.Username {
			return domain.User{}, &repository.ConstraintError{Kind: repository.ErrConflict, Constraint: "users_username_key"}
		}
	}
	f.nextID++
	u := domain.User{
		ID:           f.nextID,
		Email:        email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Role:         p.Role,
		IsActive:     p.IsActive,
		PasswordHash: p.PasswordHash,
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := f.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

type fakeTokens struct {
	users  *fakeUsers
	byUser map[int64]string
}

func newFakeTokens(users *fakeUsers) *fakeTokens {
	return &fakeTokens{users: users, byUser: map[int64]string{}}
}

func (f *fakeTokens) GetOrCreate(_ context.Context, userID int64, candidate string) (string, error) {
	if key, ok := f.byUser[userID]; ok {
		return key, nil
	}
	f.byUser[userID] = candidate
	return candidate, nil
}

func (f *fakeTokens) UserByKey(_ context.Context, key string) (domain.User, error) {
	for id, k := range f.byUser {
		if k != key {
			continue
		}
		for _, u := range f.users.byEmail {
			if u.ID == id {
				return u, nil
			}
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func clientUser() *domain.User {
	return &domain.User{ID: 7, Username: "reader", FirstName: "Ahmad", LastName: "Samir", Role: domain.RoleClient, IsActive: true}
}

func adminUser() *domain.User {
	return &domain.User{ID: 1, Username: "root", Role: domain.RoleAdmin, IsActive: true}
}

func ptr[T any](v T) *T { return &v }
