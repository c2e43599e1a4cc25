package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "auth_user"

// Identity is the authenticated user attached to a request.
type Identity struct {
	UserID   int64
	Username string
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, userKey, id)
}

// IdentityFromContext returns the authenticated user, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(userKey).(Identity)
	return id, ok && id.UserID > 0
}

// UserIDFromContext returns the authenticated user id or 0.
func UserIDFromContext(ctx context.Context) int64 {
	id, _ := IdentityFromContext(ctx)
	return id.UserID
}

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Optional attaches the identity when a valid token is present and never
// rejects the request.
func (i *Issuer) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := TokenFromRequest(r); tok != "" {
			if claims, err := i.Parse(tok); err == nil {
				r = r.WithContext(WithIdentity(r.Context(), Identity{UserID: claims.UserID, Username: claims.Username}))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects requests without a valid token. Browser page loads are
// redirected to the login form; everything else gets 401.
func (i *Issuer) Require(loginPath string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := TokenFromRequest(r)
		if tok == "" {
			deny(w, r, loginPath)
			return
		}
		claims, err := i.Parse(tok)
		if err != nil {
			slog.DebugContext(r.Context(), "Rejected session token", "error", err, "path", r.URL.Path)
			deny(w, r, loginPath)
			return
		}
		ctx := WithIdentity(r.Context(), Identity{UserID: claims.UserID, Username: claims.Username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func deny(w http.ResponseWriter, r *http.Request, loginPath string) {
	if r.Method == http.MethodGet && r.Header.Get("HX-Request") == "" && r.Header.Get("Authorization") == "" {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	http.Error(w, "authentication required", http.StatusUnauthorized)
}

// SetSessionCookie stores the token in an HttpOnly cookie.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	SetSessionCookie(w, "", -1, secure)
}
