package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

var ErrUsernameTaken = errors.New("username already taken")

// Session is an issued login token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      core.User
}

type AuthService struct {
	users  UserStore
	issuer *auth.Issuer
	cost   int
}

// NewAuthService builds the service. cost is the bcrypt work factor; zero
// selects auth.DefaultCost.
func NewAuthService(users UserStore, issuer *auth.Issuer, cost int) *AuthService {
	if cost == 0 {
		cost = auth.DefaultCost
	}
	return &AuthService{users: users, issuer: issuer, cost: cost}
}

// Signup validates the form and creates the account.
func (s *AuthService) Signup(ctx context.Context, username, password, confirm string) (core.User, error) {
	if err := core.ValidateSignup(username, password, confirm); err != nil {
		return core.User{}, err
	}
	hash, err := auth.HashPassword(password, s.cost)
	if err != nil {
		return core.User{}, err
	}
	u, err := s.users.CreateUser(ctx, username, hash)
	if errors.Is(err, storage.ErrDuplicate) {
		return core.User{}, ErrUsernameTaken
	}
	if err != nil {
		return core.User{}, fmt.Errorf("signup: %w", err)
	}
	return u, nil
}

// Login checks the credentials and issues a session token. Unknown users and
// wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.users.UserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return Session{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return Session{}, err
	}
	tok, exp, err := s.issuer.Issue(u.ID, u.Username)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, ExpiresAt: exp, User: u}, nil
}
