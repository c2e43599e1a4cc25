package http

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// monthOptions is how many months the list filter offers.
const monthOptions = 12

type entriesPage struct {
	View   services.LedgerView
	Months []string
	// Export links carry the active filter.
	WorkbookURL  template.URL
	StatementURL template.URL
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "page_home.html", pageData{Title: "Home"})
}

func (s *Server) handleNewEntryForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "page_entry_new.html", pageData{
		Title: "New entry",
		Form:  url.Values{"date": {s.today().String()}},
	})
}

// handleCreateEntry records an entry from a form or JSON body. Invalid input
// re-renders the form with every field error and stores nothing.
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Could not read the form.")
		return
	}

	entry, errs := ParseEntry(p.Get, s.today())
	if errs != nil {
		s.renderEntryForm(w, r, errs, p.Values())
		return
	}

	userID := auth.UserIDFromContext(ctx)
	created, err := s.ledger.CreateEntry(ctx, userID, entry)
	if err != nil {
		if verrs, ok := validationErrors(err); ok {
			s.renderEntryForm(w, r, verrs, p.Values())
			return
		}
		s.handleServiceError(w, r, err, log.OpCreate)
		return
	}

	s.appMetrics.entriesCreated.Add(1)
	log.NewStructuredLogger(log.FromContext(ctx).WithComponent(log.ComponentLedger)).
		LogEntryCreated(ctx, userID, created.ID, string(created.Type), created.Amount, created.Category)

	redirectAfterPost(w, r, "/entries/recent", NewHTMXResponse().
		TriggerEntryCreated(created.ID).
		TriggerFormReset().
		Notify(NotificationSuccess, "Entry saved"))
}

func (s *Server) renderEntryForm(w http.ResponseWriter, r *http.Request, errs core.ValidationErrors, form url.Values) {
	s.render(w, r, http.StatusUnprocessableEntity, "page_entry_new.html", pageData{
		Title:  "New entry",
		Errors: errs,
		Form:   form,
	})
}

func (s *Server) handleRecentEntries(w http.ResponseWriter, r *http.Request) {
	view, err := s.ledger.Recent(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		s.handleServiceError(w, r, err, log.OpList)
		return
	}
	s.render(w, r, http.StatusOK, "page_entries_recent.html", pageData{
		Title: "Recent entries",
		Data:  view,
	})
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	f := ParseEntryFilter(r.URL.Query(), today)
	view, err := s.ledger.List(r.Context(), auth.UserIDFromContext(r.Context()), f)
	if err != nil {
		s.handleServiceError(w, r, err, log.OpList)
		return
	}

	q := filterQuery(f).Encode()
	if q != "" {
		q = "?" + q
	}
	s.render(w, r, http.StatusOK, "page_entries.html", pageData{
		Title: "Ledger",
		Data: entriesPage{
			View:         view,
			Months:       services.MonthOptions(today, monthOptions),
			WorkbookURL:  template.URL("/entries/export.xlsx" + q),
			StatementURL: template.URL("/entries/statement.pdf" + q),
		},
	})
}

func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	f := ParseEntryFilter(r.URL.Query(), s.today())
	view, err := s.ledger.List(r.Context(), auth.UserIDFromContext(r.Context()), f)
	if err != nil {
		s.handleServiceError(w, r, err, log.OpExport)
		return
	}

	var buf bytes.Buffer
	if err := export.Workbook(&buf, view.Rows, view.Totals); err != nil {
		s.handleServiceError(w, r, fmt.Errorf("build workbook: %w", err), log.OpExport)
		return
	}
	sendAttachment(w, export.XLSXContentType, exportName(f, "xlsx"), buf.Bytes())
}

func (s *Server) handleExportStatement(w http.ResponseWriter, r *http.Request) {
	f := ParseEntryFilter(r.URL.Query(), s.today())
	id, _ := auth.IdentityFromContext(r.Context())
	view, err := s.ledger.List(r.Context(), id.UserID, f)
	if err != nil {
		s.handleServiceError(w, r, err, log.OpExport)
		return
	}

	var buf bytes.Buffer
	info := export.StatementInfo{
		Username:    id.Username,
		Period:      periodLabel(f),
		GeneratedAt: s.now(),
	}
	if err := export.Statement(&buf, info, view.Rows, view.Totals); err != nil {
		s.handleServiceError(w, r, fmt.Errorf("build statement: %w", err), log.OpExport)
		return
	}
	sendAttachment(w, export.PDFContentType, exportName(f, "pdf"), buf.Bytes())
}

func sendAttachment(w http.ResponseWriter, contentType, name string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// filterQuery re-encodes only the filter that took effect.
func filterQuery(f services.EntryFilter) url.Values {
	q := url.Values{}
	switch f.Applied {
	case "month":
		q.Set("month", f.Month)
	case "year":
		q.Set("year", f.Year)
	case "days":
		q.Set("days", f.Days)
	}
	return q
}

func periodLabel(f services.EntryFilter) string {
	switch f.Applied {
	case "month":
		return f.Month
	case "year":
		return "Year " + f.Year
	case "days":
		return "Last " + f.Days + " days"
	}
	return "All entries"
}
