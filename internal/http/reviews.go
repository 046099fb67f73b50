package httpserver

import (
	"net/http"
	"time"

	"github.com/Clark-Hu/bookreviews/internal/access"
	"github.com/Clark-Hu/bookreviews/internal/domain"
	"github.com/Clark-Hu/bookreviews/internal/service"
)

type reviewResponse struct {
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type createdReviewResponse struct {
	ID        int64     `json:"id"`
	Book      int64     `json:"book"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	bookID, err := parseBookID(r)
	if err != nil {
		s.respondError(w, r, policyFirst(user, access.ListReviews, err))
		return
	}

	reviews, err := s.reviews.ListForBook(r.Context(), user, bookID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := listResponse[reviewResponse]{Results: make([]reviewResponse, 0, len(reviews))}
	for _, review := range reviews {
		resp.Results = append(resp.Results, reviewResponse{
			User:      review.AuthorName,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req service.CreateReviewInput
	if err := decodeJSONBody(w, r, &req); err != nil {
		if denied := access.Check(user, access.CreateReview); denied != nil {
			s.respondError(w, r, denied)
			return
		}
		s.respondDecodeError(w, r, err)
		return
	}

	review, err := s.reviews.Create(r.Context(), user, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, toCreatedReviewResponse(review))
}

func toCreatedReviewResponse(review domain.Review) createdReviewResponse {
	return createdReviewResponse{
		ID:        review.ID,
		Book:      review.BookID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}
