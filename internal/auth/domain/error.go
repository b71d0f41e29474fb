package domain

import "errors"

var (
	// Authentication failures. The client must re-authenticate; none of
	// these are retryable with the same token.
	ErrNoToken            = errors.New("access token required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrPrincipalNotFound  = errors.New("principal not found")
	ErrSessionExpired     = errors.New("session expired or invalid")
	ErrSessionNotFound    = errors.New("session not found")

	// ErrInvalidRefreshToken covers both a bad token value and a session
	// row that is inactive or past its expiry; the two are reported
	// identically to the caller.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	// Authorization failures.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInvalidDesignation rejects role values outside the known set.
	ErrInvalidDesignation = errors.New("invalid role")

	// ErrDuplicateAccount signals a username, email or MMID collision on
	// account creation.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrMissingFields rejects account provisioning without the required
	// identity fields.
	ErrMissingFields = errors.New("missing required fields")

	// ErrSessionValidation is a transient store failure during session
	// checks. It is retryable and must never be conflated with an
	// authentication failure.
	ErrSessionValidation = errors.New("session validation failed")
)

// PermissionError is returned when a resolved principal lacks a required
// designation. It carries the diagnostic role sets surfaced to the client.
type PermissionError struct {
	Required []Designation
	Current  Designation
}

func (e *PermissionError) Error() string {
	return "insufficient permissions"
}

// NewPermissionError records the roles that would have been accepted.
func NewPermissionError(current Designation, required ...Designation) *PermissionError {
	return &PermissionError{Required: required, Current: current}
}
