package domain

import "errors"

var (
	// ErrQuotaExceeded is returned when a user already reached the daily
	// workout limit. It clears on the next calendar day, not on retry.
	ErrQuotaExceeded = errors.New("daily workout limit reached")
	// ErrDuplicateUsername is returned when a new user's username collides
	// case-sensitively with an existing one.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUserNotFound is returned when a referenced user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrActivityNotFound is returned when a referenced activity id does not resolve.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrWorkoutNotFound is returned when a workout id does not resolve.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
