package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

func newAuthService() (*AuthService, *auth.Issuer) {
	iss := auth.NewIssuer("test-secret", time.Hour)
	return NewAuthService(&fakeUsers{}, iss, bcrypt.MinCost), iss
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc, iss := newAuthService()
	ctx := context.Background()

	u, err := svc.Signup(ctx, "Ada", "analytical", "analytical")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.PasswordHash == "analytical" {
		t.Fatal("password must be hashed")
	}

	if _, err := svc.Signup(ctx, "ada", "analytical", "analytical"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	sess, err := svc.Login(ctx, "ADA", "analytical")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := iss.Parse(sess.Token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != u.ID {
		t.Fatalf("token user = %d, want %d", claims.UserID, u.ID)
	}
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "ada", "analytical", "analytical"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	_, wrongPass := svc.Login(ctx, "ada", "nope")
	_, unknown := svc.Login(ctx, "bob", "analytical")
	if !errors.Is(wrongPass, auth.ErrInvalidCredentials) || !errors.Is(unknown, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v and %v", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatal("failures should be indistinguishable")
	}
}

func TestAuthService_SignupValidation(t *testing.T) {
	svc, _ := newAuthService()
	_, err := svc.Signup(context.Background(), "x", "short", "other")
	var verrs core.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	for _, f := range []string{"username", "password", "confirm"} {
		if verrs[f] == "" {
			t.Errorf("missing %s error", f)
		}
	}
}
