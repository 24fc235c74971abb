package service

import (
	"errors"
	"fmt"

	"alcyxob/fitness-routines/internal/repository"
)

// --- Error Definitions ---
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrUpstream             = errors.New("generation failed")
	ErrFeatureDisabled      = errors.New("feature not configured")
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFoundOr maps a repository miss onto ErrNotFound and wraps anything else.
func notFoundOr(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
