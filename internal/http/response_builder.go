// Package http serves the ledger and goal pages.
//
// Requests carrying HX-Request get HTMX-shaped answers: an HX-Redirect with
// HX-Trigger events after a successful post, and a small HTML fragment on
// errors. Everything else gets full pages and 303 redirects.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// Events sent in HX-Trigger.
const (
	HXEntryCreated = "entry:created"
	HXIdeaUpdated  = "idea:updated"
	HXIdeaDeleted  = "idea:deleted"
	HXFormReset    = "form:reset"
	HXNotification = "show-notification"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// notificationTTL is how long the page keeps a toast on screen, in ms.
var notificationTTL = map[NotificationType]int{
	NotificationSuccess: 3000,
	NotificationError:   5000,
}

// HTMXResponseBuilder collects HX-Trigger events, headers and an optional
// HTML fragment, then writes them in one go.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	header     http.Header
	body       []byte
}

func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		header:     make(http.Header),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger sets event name with payload; a repeated name overwrites.
func (b *HTMXResponseBuilder) Trigger(name string, payload any) *HTMXResponseBuilder {
	b.triggers[name] = payload
	return b
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.header.Set(name, value)
	return b
}

// Redirect asks htmx to navigate to path once the events have fired.
func (b *HTMXResponseBuilder) Redirect(path string) *HTMXResponseBuilder {
	return b.Header("HX-Redirect", path)
}

func (b *HTMXResponseBuilder) TriggerEntryCreated(id int64) *HTMXResponseBuilder {
	return b.Trigger(HXEntryCreated, map[string]int64{"id": id})
}

func (b *HTMXResponseBuilder) TriggerIdeaChanged(id int64, status string) *HTMXResponseBuilder {
	return b.Trigger(HXIdeaUpdated, map[string]any{"id": id, "status": status})
}

func (b *HTMXResponseBuilder) TriggerIdeaDeleted(id int64) *HTMXResponseBuilder {
	return b.Trigger(HXIdeaDeleted, map[string]int64{"id": id})
}

func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(HXFormReset, struct{}{})
}

// Notify shows a toast. An empty message is ignored.
func (b *HTMXResponseBuilder) Notify(kind NotificationType, message string) *HTMXResponseBuilder {
	if message == "" {
		return b
	}
	return b.Trigger(HXNotification, map[string]any{
		"type":     string(kind),
		"message":  message,
		"duration": notificationTTL[kind],
	})
}

// HTML sets an HTML fragment as the body.
func (b *HTMXResponseBuilder) HTML(fragment string) *HTMXResponseBuilder {
	b.header.Set("Content-Type", "text/html; charset=utf-8")
	b.body = []byte(fragment)
	return b
}

func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, values := range b.header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	if len(b.triggers) > 0 {
		if raw, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(raw))
		}
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse is an escaped error fragment with an error toast.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(statusCode).
		Notify(NotificationError, message).
		HTML(`<div class="error" role="alert">` + template.HTMLEscapeString(message) + `</div>`)
}

func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// redirectAfterPost finishes a successful form post. HTMX clients get b with
// an HX-Redirect to path; browsers get a 303 and b is dropped.
func redirectAfterPost(w http.ResponseWriter, r *http.Request, path string, b *HTMXResponseBuilder) {
	if !isHTMX(r) {
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}
	if b == nil {
		b = NewHTMXResponse()
	}
	b.Redirect(path).Write(w)
}
