package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned by Authenticate when no user matches.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken is returned by Register for a duplicate username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrUnauthorized is returned when the session has the wrong role or does not own the target.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotAuthenticated is returned when an operation needs a session and there is none.
	ErrNotAuthenticated = fmt.Errorf("%w: not logged in", ErrUnauthorized)
	// ErrDuplicateApplication is returned when the volunteer already applied to the project.
	ErrDuplicateApplication = errors.New("already applied to this project")
	// ErrInvalidTransition is returned when the application is no longer pending.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrProjectNotFound is returned when a project id does not resolve.
	ErrProjectNotFound = errors.New("project not found")
	// ErrApplicationNotFound is returned by UpdateApplicationStatus for an unknown id.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrInvalidInput wraps every validation failure of caller-supplied fields.
	ErrInvalidInput = errors.New("invalid input")
)

var domainErrors = []error{
	ErrInvalidCredentials,
	ErrUsernameTaken,
	ErrUnauthorized,
	ErrDuplicateApplication,
	ErrInvalidTransition,
	ErrProjectNotFound,
	ErrApplicationNotFound,
	ErrInvalidInput,
}

// IsDomainError reports whether err is a rejected precondition rather than a storage fault.
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
