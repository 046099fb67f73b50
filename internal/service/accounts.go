package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Clark-Hu/bookreviews/internal/auth"
	"github.com/Clark-Hu/bookreviews/internal/domain"
	domainerrors "github.com/Clark-Hu/bookreviews/internal/errors"
	"github.com/Clark-Hu/bookreviews/internal/repository"
	"github.com/Clark-Hu/bookreviews/internal/validation"
)

// RegisterInput is a self-service sign-up request.
type RegisterInput struct {
	FirstName string `json:"first_name" validate:"required,max=64,personname"`
	LastName  string `json:"last_name" validate:"required,max=64,personname"`
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8,max=72,notnumeric"`
}

// LoginInput exchanges credentials for the user's token.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Accounts registers users, issues their tokens and resolves tokens back to
// users.
type Accounts struct {
	users     UserStore
	tokens    TokenStore
	validator *validation.Validator
	logger    *slog.Logger
	newKey    func() (string, error)
}

// NewAccounts constructs the account service.
func NewAccounts(users UserStore, tokens TokenStore, v *validation.Validator, logger *slog.Logger) *Accounts {
	return &Accounts{
		users:     users,
		tokens:    tokens,
		validator: v,
		logger:    logger,
		newKey:    auth.NewTokenKey,
	}
}

// Register creates an active client account and returns its token.
func (s *Accounts) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validator.Validate(in); err != nil {
		return "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", domainerrors.FieldError("password", "must not exceed 72 bytes")
		}
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to hash password")
	}

	user, err := s.users.Create(ctx, repository.UserCreateParams{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         domain.RoleClient,
		IsActive:     true,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return "", domainerrors.Conflict("a user with this email or username already exists")
		}
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to create user")
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "user registered", slog.Int64("user_id", user.ID))
	return token, nil
}

// Login verifies credentials and returns the user's existing token, creating
// one on first login. Unknown emails and wrong passwords are indistinguishable.
func (s *Accounts) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validator.Validate(in); err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", domainerrors.InvalidCredentials("Incorrect email or password")
		}
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to load user")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, in.Password)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to verify password")
	}
	if !ok {
		s.logger.WarnContext(ctx, "failed login", slog.Int64("user_id", user.ID))
		return "", domainerrors.InvalidCredentials("Incorrect email or password")
	}

	return s.issueToken(ctx, user.ID)
}

// Authenticate resolves a token key to its user. Inactive users are still
// returned; the access policy rejects them.
func (s *Accounts) Authenticate(ctx context.Context, key string) (domain.User, error) {
	if key == "" {
		return domain.User{}, domainerrors.ErrNotAuthenticated
	}
	user, err := s.tokens.UserByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, domainerrors.NotAuthenticated("Invalid token.")
		}
		return domain.User{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to resolve token")
	}
	return user, nil
}

func (s *Accounts) issueToken(ctx context.Context, userID int64) (string, error) {
	candidate, err := s.newKey()
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate token")
	}
	token, err := s.tokens.GetOrCreate(ctx, userID, candidate)
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to store token")
	}
	return token, nil
}
