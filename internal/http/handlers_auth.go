package http

import (
	"errors"
	"net/http"
	"net/url"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "page_welcome.html", pageData{Title: "Welcome"})
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "page_signup.html", pageData{Title: "Sign up"})
}

// handleSignup creates the account and sends the user to the login form.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Could not read the form.")
		return
	}
	username := p.Get("username")
	// Passwords are not sanitized: every byte counts toward the hash.
	password, confirm := rawField(p, "password"), rawField(p, "confirm")

	u, err := s.auth.Signup(r.Context(), username, password, confirm)
	if err != nil {
		errs, ok := validationErrors(err)
		if errors.Is(err, services.ErrUsernameTaken) {
			errs, ok = core.ValidationErrors{"username": err.Error()}, true
		}
		if !ok {
			s.handleServiceError(w, r, err, log.OpSignup)
			return
		}
		s.render(w, r, http.StatusUnprocessableEntity, "page_signup.html", pageData{
			Title:  "Sign up",
			Errors: errs,
			Form:   url.Values{"username": {username}},
		})
		return
	}

	s.appMetrics.signups.Add(1)
	s.logger.InfoContext(r.Context(), "User signed up",
		log.FieldUserID, u.ID,
		log.FieldOperation, log.OpSignup)
	redirectAfterPost(w, r, loginPath, NewHTMXResponse().Notify(NotificationSuccess, "Account created, please log in"))
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "page_login.html", pageData{Title: "Log in"})
}

// handleLogin issues the session cookie. Any credential failure re-renders the
// form with the same message so usernames cannot be probed.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Could not read the form.")
		return
	}
	username := p.Get("username")

	sess, err := s.auth.Login(r.Context(), username, rawField(p, "password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.appMetrics.failedLogins.Add(1)
		s.logger.WarnContext(r.Context(), "Login rejected",
			log.FieldOperation, log.OpLogin,
			log.FieldClientIP, s.securityDetector.ExtractClientIP(r))
		s.render(w, r, http.StatusUnauthorized, "page_login.html", pageData{
			Title:  "Log in",
			Errors: core.ValidationErrors{"form": "Invalid username or password."},
			Form:   url.Values{"username": {username}},
		})
		return
	}
	if err != nil {
		s.handleServiceError(w, r, err, log.OpLogin)
		return
	}

	auth.SetSessionCookie(w, sess.Token, int(s.issuer.TTL().Seconds()), s.cookieSecure)
	s.appMetrics.logins.Add(1)
	s.logger.InfoContext(r.Context(), "User logged in",
		log.FieldUserID, sess.User.ID,
		log.FieldOperation, log.OpLogin)
	redirectAfterPost(w, r, "/home", nil)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, s.cookieSecure)
	redirectAfterPost(w, r, "/", nil)
}

// rawField returns a field without trimming, for secrets.
func rawField(p *RequestBodyParser, key string) string {
	if p.jsonData != nil {
		return stringValue(p.jsonData[key])
	}
	return p.formData.Get(key)
}
