package httpserver

import (
	"net/http"

	"github.com/Clark-Hu/bookreviews/internal/access"
	"github.com/Clark-Hu/bookreviews/internal/service"
)

const dateLayout = "2006-01-02"

type bookSummaryResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	AverageRating float64 `json:"average_rating"`
}

type bookDetailResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	Content       string  `json:"content"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
	PublishedDate string  `json:"published_date"`
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.books.List(r.Context(), userFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := listResponse[bookSummaryResponse]{Results: make([]bookSummaryResponse, 0, len(books))}
	for _, b := range books {
		resp.Results = append(resp.Results, toBookSummaryResponse(b))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	id, err := parseBookID(r)
	if err != nil {
		s.respondError(w, r, policyFirst(user, access.ViewBook, err))
		return
	}

	book, err := s.books.Get(r.Context(), user, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toBookDetailResponse(book))
}

func toBookSummaryResponse(b service.BookSummary) bookSummaryResponse {
	return bookSummaryResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		AverageRating: b.AverageRating,
	}
}

func toBookDetailResponse(b service.BookDetail) bookDetailResponse {
	return bookDetailResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Description:   b.Description,
		Content:       b.Content,
		AverageRating: b.AverageRating,
		ReviewCount:   b.ReviewCount,
		PublishedDate: b.PublishedDate.Format(dateLayout),
	}
}
