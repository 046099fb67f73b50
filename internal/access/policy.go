// Package access decides whether a caller may use a book or review endpoint.
package access

import (
	"fmt"

	"github.com/Clark-Hu/bookreviews/internal/domain"
	domainerrors "github.com/Clark-Hu/bookreviews/internal/errors"
)

// Capability names an operation guarded by the policy.
type Capability int

const (
	ListBooks Capability = iota + 1
	ViewBook
	ListReviews
	CreateReview
)

func (c Capability) String() string {
	switch c {
	case ListBooks:
		return "list_books"
	case ViewBook:
		return "view_book"
	case ListReviews:
		return "list_reviews"
	case CreateReview:
		return "create_review"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Reason explains a denial.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotAuthenticated
	ReasonForbidden
)

func (r Reason) String() string {
	switch r {
	case ReasonNotAuthenticated:
		return "not_authenticated"
	case ReasonForbidden:
		return "forbidden"
	default:
		return "none"
	}
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var (
	allow            = Decision{Allowed: true}
	notAuthenticated = Decision{Reason: ReasonNotAuthenticated}
	forbidden        = Decision{Reason: ReasonForbidden}
)

// Authorize reports whether user may exercise capability. A nil user is
// unauthenticated. Only active clients are allowed; every capability in this
// package currently shares that rule.
func Authorize(user *domain.User, capability Capability) Decision {
	if user == nil {
		return notAuthenticated
	}
	if !user.IsActive {
		return forbidden
	}

	switch capability {
	case ListBooks, ViewBook, ListReviews, CreateReview:
	default:
		return forbidden
	}

	switch user.Role {
	case domain.RoleClient:
		return allow
	case domain.RoleAdmin:
		return forbidden
	default:
		return forbidden
	}
}

// Err converts a denial into the matching coded error, or nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonNotAuthenticated:
		return domainerrors.ErrNotAuthenticated
	default:
		return domainerrors.Forbidden("You do not have permission to perform this action.")
	}
}

// Check is Authorize followed by Decision.Err.
func Check(user *domain.User, capability Capability) error {
	return Authorize(user, capability).Err()
}
