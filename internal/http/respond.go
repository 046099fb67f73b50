package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/bookreviews/internal/access"
	"github.com/Clark-Hu/bookreviews/internal/domain"
	domainerrors "github.com/Clark-Hu/bookreviews/internal/errors"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

type listResponse[T any] struct {
	Results []T `json:"results"`
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

var errTrailingData = errors.New("request body must contain a single JSON object")

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("http: failed to encode response", slog.Any("error", err))
		}
	}
}

// respondError maps a service error onto its status code. Errors without a
// code are logged and reported as 500 without leaking their message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *domainerrors.Error
	if !errors.As(err, &appErr) {
		appErr = domainerrors.Wrap(err, domainerrors.CodeInternal, "internal error")
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "http: request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		s.respondJSON(w, status, errorResponse{Code: string(domainerrors.CodeInternal), Detail: "A server error occurred."})
		return
	}

	resp := errorResponse{Code: string(appErr.Code), Detail: appErr.Message}
	if fields, ok := appErr.Details.(map[string]string); ok {
		resp.Fields = fields
	}
	s.respondJSON(w, status, resp)
}

func (s *Server) respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
		s.respondError(w, r, domainerrors.Validation("Malformed JSON payload."))
	case errors.As(err, &typeError):
		field := typeError.Field
		if field == "" {
			s.respondError(w, r, domainerrors.Validation("Request body must be a JSON object."))
			return
		}
		s.respondError(w, r, domainerrors.FieldError(field, "must be a valid "+typeError.Type.String()))
	case errors.As(err, &maxBytesError):
		s.respondError(w, r, domainerrors.Validation("Request body too large."))
	case errors.Is(err, io.EOF):
		s.respondError(w, r, domainerrors.Validation("Request body cannot be empty."))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		s.respondError(w, r, domainerrors.FieldError(field, "is not a recognized field"))
	default:
		s.respondError(w, r, domainerrors.Validation("Unable to parse request body."))
	}
}

// parseBookID reads the {bookID} path segment. Anything that is not a
// positive integer cannot name a book.
func parseBookID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "bookID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domainerrors.NotFound("Book not found")
	}
	return id, nil
}

// policyFirst keeps the access policy ahead of path validation: a caller the
// policy rejects sees 401 or 403 even for a malformed id.
func policyFirst(user *domain.User, capability access.Capability, err error) error {
	if denied := access.Check(user, capability); denied != nil {
		return denied
	}
	return err
}
