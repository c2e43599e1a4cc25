package core

import (
	"errors"
	"regexp"
	"time"
)

// User owns ledger entries and goals.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

const (
	MinPasswordLength = 8
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72
)

var (
	ErrInvalidUsername  = errors.New("username must be 3-30 letters, digits, or . _ -")
	ErrPasswordLength   = errors.New("password must be between 8 and 72 bytes")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)

func ValidateUsername(name string) error {
	if !usernamePattern.MatchString(name) {
		return ErrInvalidUsername
	}
	return nil
}

// ValidateSignup checks the signup form fields together.
func ValidateSignup(username, password, confirm string) error {
	errs := ValidationErrors{}
	if err := ValidateUsername(username); err != nil {
		errs.Add("username", err.Error())
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		errs.Add("password", ErrPasswordLength.Error())
	}
	if password != confirm {
		errs.Add("confirm", ErrPasswordMismatch.Error())
	}
	return errs.OrNil()
}
