package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lazharichir/zigo/catalog"
	"github.com/lazharichir/zigo/chat"
	"github.com/lazharichir/zigo/domain"
	"github.com/lazharichir/zigo/planner"
)

// Problem is an RFC 7807 error body
type Problem struct {
	Type   string              `json:"type,omitempty"`
	Title  string              `json:"title,omitempty"`
	Status int                 `json:"status,omitempty"`
	Detail string              `json:"detail,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, errs map[string][]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Title:  title,
		Status: status,
		Detail: detail,
		Errors: errs,
	})
}

// writeError maps domain errors onto HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		prob := map[string][]string{}
		for _, fe := range verr.Fields {
			prob[fe.Field] = append(prob[fe.Field], fe.Msg)
		}
		writeProblem(w, http.StatusBadRequest, "validation failed", "one or more fields are invalid", prob)

	case errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrVendorNotFound),
		errors.Is(err, domain.ErrGuestNotFound),
		errors.Is(err, catalog.ErrVendorNotFound):
		writeProblem(w, http.StatusNotFound, "not found", err.Error(), nil)

	case errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidPaymentStatus),
		errors.Is(err, domain.ErrInvalidGuestStatus),
		errors.Is(err, planner.ErrCategoryMismatch),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrEmptyVendor):
		writeProblem(w, http.StatusBadRequest, "bad request", err.Error(), nil)

	case errors.Is(err, chat.ErrClosed):
		writeProblem(w, http.StatusServiceUnavailable, "unavailable", err.Error(), nil)

	default:
		writeProblem(w, http.StatusInternalServerError, "internal error", err.Error(), nil)
	}
}

func decodeJSONStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func drainBody(r *http.Request) {
	if r.Body != nil {
		_, _ = io.Copy(io.Discard, r.Body)
		_ = r.Body.Close()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
