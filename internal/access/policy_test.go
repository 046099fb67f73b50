package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Clark-Hu/bookreviews/internal/domain"
	domainerrors "github.com/Clark-Hu/bookreviews/internal/errors"
)

func TestAuthorize(t *testing.T) {
	client := &domain.User{ID: 1, Role: domain.RoleClient, IsActive: true}
	admin := &domain.User{ID: 2, Role: domain.RoleAdmin, IsActive: true}
	inactiveClient := &domain.User{ID: 3, Role: domain.RoleClient, IsActive: false}
	unknownRole := &domain.User{ID: 4, Role: domain.Role("staff"), IsActive: true}

	capabilities := []Capability{ListBooks, ViewBook, ListReviews, CreateReview}

	tests := []struct {
		name string
		user *domain.User
		want Decision
	}{
		{"unauthenticated", nil, Decision{Reason: ReasonNotAuthenticated}},
		{"admin", admin, Decision{Reason: ReasonForbidden}},
		{"inactive client", inactiveClient, Decision{Reason: ReasonForbidden}},
		{"unknown role", unknownRole, Decision{Reason: ReasonForbidden}},
		{"active client", client, Decision{Allowed: true}},
	}
	for _, tt := range tests {
		for _, c := range capabilities {
			t.Run(tt.name+"/"+c.String(), func(t *testing.T) {
				assert.Equal(t, tt.want, Authorize(tt.user, c))
			})
		}
	}
}

func TestAuthorize_UnknownCapability(t *testing.T) {
	client := &domain.User{Role: domain.RoleClient, IsActive: true}
	assert.Equal(t, ReasonForbidden, Authorize(client, Capability(99)).Reason)
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, Decision{Allowed: true}.Err())
	assert.ErrorIs(t, Decision{Reason: ReasonNotAuthenticated}.Err(), domainerrors.ErrNotAuthenticated)
	assert.ErrorIs(t, Decision{Reason: ReasonForbidden}.Err(), domainerrors.ErrForbidden)

	assert.ErrorIs(t, Check(nil, ListBooks), domainerrors.ErrNotAuthenticated)
	assert.ErrorIs(t, Check(&domain.User{Role: domain.RoleAdmin, IsActive: true}, CreateReview), domainerrors.ErrForbidden)
}
