package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// maxBodyBytes bounds form and JSON bodies.
const maxBodyBytes = 64 << 10

// RequestBodyParser reads a body once and serves fields from either JSON or
// form encoding, so API clients and browser forms share one handler.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{contentType: r.Header.Get("Content-Type")}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse decodes the body as JSON when it looks like JSON, else as a form.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true
	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}
	if strings.HasPrefix(p.contentType, "application/json") || trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal([]byte(trimmed), &p.jsonData); err != nil {
			p.err = err
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns a sanitized field value, or "".
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Values returns every field as url.Values, for echoing into a form.
func (p *RequestBodyParser) Values() url.Values {
	if p.formData != nil {
		return p.formData
	}
	out := url.Values{}
	for k, v := range p.jsonData {
		out.Set(k, stringValue(v))
	}
	return out
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseEntry builds a ledger entry from submitted fields. A blank date means
// today. Field problems, including those found by LedgerEntry.Validate, are
// returned together.
func ParseEntry(get func(string) string, today core.Date) (core.LedgerEntry, core.ValidationErrors) {
	errs := core.ValidationErrors{}
	e := core.LedgerEntry{
		Type:        core.TransactionType(get("transaction_type")),
		ItemService: get("item_service"),
		Category:    get("category"),
		Note:        get("note"),
	}

	if raw := get("date"); raw == "" {
		e.Date = today
	} else if d, err := time.Parse("2006-01-02", raw); err != nil {
		errs.Add("date", "enter a date as YYYY-MM-DD")
	} else {
		e.Date = core.NewDate(d.Year(), int(d.Month()), d.Day())
	}

	if n, err := strconv.ParseInt(get("amount"), 10, 64); err != nil {
		errs.Add("amount", core.ErrInvalidAmount.Error())
	} else {
		e.Amount = n
	}

	if verrs, ok := validationErrors(e.Validate()); ok {
		for field, msg := range verrs {
			errs.Add(field, msg)
		}
	}
	if len(errs) > 0 {
		return e, errs
	}
	return e, nil
}

// ParseGoalInput reads the goal form. An unparsable target date is a field
// error; an empty one leaves the goal without a deadline.
func ParseGoalInput(get func(string) string) (services.GoalInput, core.ValidationErrors) {
	in := services.GoalInput{
		Title:            get("title"),
		Objective:        get("objective"),
		Category:         get("category"),
		Priority:         core.Priority(get("priority")),
		Status:           core.GoalStatus(get("status")),
		RequirementsText: get("requirements"),
	}
	if v := get("target_date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return in, core.ValidationErrors{"target_date": "enter a date as YYYY-MM-DD"}
		}
		in.TargetDate = core.NewDate(d.Year(), int(d.Month()), d.Day())
	}
	return in, nil
}

// ParseCheckedRequirements collects the ids of ticked req_{id} checkboxes.
// An unchecked box is simply absent from the form.
func ParseCheckedRequirements(form url.Values) map[int64]bool {
	checked := make(map[int64]bool)
	for key, vals := range form {
		rest, ok := strings.CutPrefix(key, "req_")
		if !ok || len(vals) == 0 || vals[0] == "" {
			continue
		}
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		checked[id] = true
	}
	return checked
}

// ParseGoalFilter keeps only recognised values; anything else matches all.
func ParseGoalFilter(q url.Values) storage.GoalFilter {
	var f storage.GoalFilter
	if c := q.Get("category"); core.IsValidGoalCategory(c) {
		f.Category = c
	}
	if st := core.GoalStatus(q.Get("status")); st.Valid() {
		f.Status = st
	}
	if p := core.Priority(q.Get("priority")); p.Valid() {
		f.Priority = p
	}
	return f
}

// ParseEntryFilter reads the month, year and days query parameters.
func ParseEntryFilter(q url.Values, today core.Date) services.EntryFilter {
	return services.ParseEntryFilter(q.Get("month"), q.Get("year"), q.Get("days"), today)
}

// exportName is the download file name for a filtered listing.
func exportName(f services.EntryFilter, ext string) string {
	suffix := "all"
	switch f.Applied {
	case "month":
		suffix = f.Range.From.Format("2006-01")
	case "year":
		suffix = f.Year
	case "days":
		suffix = "last-" + f.Days + "-days"
	}
	return fmt.Sprintf("ledger-%s.%s", suffix, ext)
}
