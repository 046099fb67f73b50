package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/bookreviews/internal/domain"
	domainerrors "github.com/Clark-Hu/bookreviews/internal/errors"
	"github.com/Clark-Hu/bookreviews/internal/logger"
	"github.com/Clark-Hu/bookreviews/internal/validation"
)

func newAccounts() (*Accounts, *fakeUsers) {
	users := newFakeUsers()
	return NewAccounts(users, newFakeTokens(users), validation.New(), logger.Discard()), users
}

func validRegistration() RegisterInput {
	return RegisterInput{
		FirstName: "Ahmad",
		LastName:  "Samir",
		Username:  "ahmad_s",
		Email:     "Ahmad@Example.com",
		Password:  "s3cret-pass",
	}
}

func TestAccounts_RegisterLoginAuthenticate(t *testing.T) {
	svc, users := newAccounts()
	ctx := context.Background()

	token, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	stored, err := users.GetByEmail(ctx, "ahmad@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleClient, stored.Role)
	assert.True(t, stored.IsActive)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)

	again, err := svc.Login(ctx, LoginInput{Email: "ahmad@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, token, again, "login returns the existing token")

	user, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
}

func TestAccounts_RegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*RegisterInput)
		field string
	}{
		{"missing first name", func(in *RegisterInput) { in.FirstName = "" }, "first_name"},
		{"digits in name", func(in *RegisterInput) { in.LastName = "Samir2" }, "last_name"},
		{"bad username", func(in *RegisterInput) { in.Username = "has space" }, "username"},
		{"bad email", func(in *RegisterInput) { in.Email = "nope" }, "email"},
		{"short password", func(in *RegisterInput) { in.Password = "short" }, "password"},
		{"numeric password", func(in *RegisterInput) { in.Password = "1234567890" }, "password"},
		{"password over 72 bytes", func(in *RegisterInput) { in.Password = strings.Repeat("é", 40) }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newAccounts()
			in := validRegistration()
			tt.edit(&in)

			_, err := svc.Register(context.Background(), in)
			require.ErrorIs(t, err, domainerrors.ErrValidation)
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}
}

func TestAccounts_RegisterDuplicate(t *testing.T) {
	svc, _ := newAccounts()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	dup := validRegistration()
	dup.Username = "someone_else"
	_, err = svc.Register(ctx, dup)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestAccounts_LoginFailures(t *testing.T) {
	svc, _ := newAccounts()
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Email: "ahmad@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "", Password: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAccounts_Authenticate(t *testing.T) {
	svc, _ := newAccounts()
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	_, err = svc.Authenticate(ctx, "no-such-key")
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
}
