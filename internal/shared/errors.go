package shared

import "errors"

var (
	// ErrNotFound indicates the requested user, role, permission or rule does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a duplicate username, email or permission name.
	ErrConflict = errors.New("conflict")
	// ErrForbidden indicates a role-management policy violation.
	ErrForbidden = errors.New("forbidden operation")
	// ErrInvalidPrincipal indicates the authentication context is missing or malformed.
	ErrInvalidPrincipal = errors.New("invalid principal")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
