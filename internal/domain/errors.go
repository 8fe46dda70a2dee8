// Package domain defines the business logic for HabitKick.
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a row does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller may see a row but not change it.
	ErrForbidden = errors.New("forbidden")
	// ErrAlreadyExists is returned on unique-constraint conflicts.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation wraps every input validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrEmailTaken is returned by sign up when the email is registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when a username is claimed by another profile.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned for any sign in failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrCompetitionFinalized is returned when mutating a finalized competition.
	ErrCompetitionFinalized = errors.New("competition already finalized")
	// ErrCompetitionEnded is returned when joining a competition after its end date.
	ErrCompetitionEnded = errors.New("competition has ended")
	// ErrOutsideChallengeWindow is returned when progress is recorded outside the joined window.
	ErrOutsideChallengeWindow = errors.New("day outside challenge window")
	// ErrNotParticipant is returned when recording progress for a challenge the user has not joined.
	ErrNotParticipant = errors.New("not a challenge participant")
	// ErrUpstreamUnavailable wraps failures of third-party APIs.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
