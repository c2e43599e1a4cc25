package http

import (
	"bytes"
	"errors"
	"html/template"
	"math"
	"net/http"
	"net/url"

	"github.com/dustin/go-humanize"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// pageData is what every page template receives.
type pageData struct {
	Title  string
	User   *auth.Identity
	Errors core.ValidationErrors
	// Form echoes submitted values back into a re-rendered form.
	Form url.Values
	Data any
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"comma": humanize.Comma,
		"date": func(d core.Date) string {
			return d.String()
		},
		"categoryLabel": func(value string) string {
			for _, c := range core.LedgerCategories {
				if c.Value == value {
					return c.Label
				}
			}
			return value
		},
		"ledgerCategories": func() []core.Choice { return core.LedgerCategories },
		"transactionTypes": func() []core.TransactionType { return core.TransactionTypes },
		"goalCategories":   func() []string { return core.GoalCategories },
		"priorities":       func() []core.Priority { return core.Priorities },
		"goalStatuses":     func() []core.GoalStatus { return core.GoalStatuses },
		"ring":             newRing,
	}
}

// ringView sizes the SVG progress ring of one goal.
type ringView struct {
	Percent       int
	Circumference int
	Offset        int
	Radius        float64
	Center        float64
	Size          float64
}

func newRing(v services.GoalView, circumference int) ringView {
	r := float64(circumference) / (2 * math.Pi)
	center := math.Ceil(r) + 6
	return ringView{
		Percent:       v.Progress.Percent,
		Circumference: circumference,
		Offset:        v.Offset,
		Radius:        math.Round(r*100) / 100,
		Center:        center,
		Size:          2 * center,
	}
}

// render executes a page into a buffer so a template failure never leaves a
// half-written response behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	t, ok := s.pages[page]
	if !ok {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Unknown template", "template", page)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		data.User = &id
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			log.FieldOperation, log.OpRender,
			"template", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Status  int
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.render(w, r, status, "page_error.html", pageData{
		Title: http.StatusText(status),
		Data:  errorPage{Status: status, Message: msg},
	})
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var verrs core.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrUsernameTaken), errors.Is(err, storage.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError writes the error page for err and logs server faults.
func (s *Server) handleServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := statusFor(err)
	msg := http.StatusText(status)
	switch status {
	case http.StatusNotFound:
		msg = "That page does not exist or is not yours."
	case http.StatusInternalServerError:
		log.NewStructuredLogger(log.FromContext(r.Context())).LogError(r.Context(), "Request failed", err, log.ComponentHTTP, op,
			log.NewFields().WithUser(auth.UserIDFromContext(r.Context())))
		msg = "Something went wrong. Please try again."
	}
	if isHTMX(r) {
		ErrorResponse(status, msg).Write(w)
		return
	}
	s.renderError(w, r, status, msg)
}

// validationErrors extracts field errors from err, if it carries any.
func validationErrors(err error) (core.ValidationErrors, bool) {
	var verrs core.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}
