package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies the stage of the guard chain that rejected a request.
type Kind string

const (
	KindAuthHeaderMissing       Kind = "auth_header_missing"
	KindMalformedAuthHeader     Kind = "malformed_auth_header"
	KindInvalidHeader           Kind = "invalid_header"
	KindTokenExpired            Kind = "token_expired"
	KindInvalidClaims           Kind = "invalid_claims"
	KindPermissionsClaimMissing Kind = "permissions_claim_missing"
	KindPermissionNotGranted    Kind = "permission_not_granted"
	KindKeySetUnavailable       Kind = "key_set_unavailable"
)

// Error is the typed authorization failure. Code and Description are
// what clients see; Err carries the underlying cause for logs only.
type Error struct {
	Kind        Kind
	Code        string
	Description string
	Status      int
	Err         error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap implements errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel values below regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Status == t.Status && e.Description == t.Description
}

// wrap returns a copy of the sentinel carrying cause.
func (e *Error) wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

var (
	ErrAuthHeaderMissing = &Error{
		Kind:        KindAuthHeaderMissing,
		Code:        "authorization_header_missing",
		Description: "Authorization header is expected.",
		Status:      http.StatusUnauthorized,
	}

	ErrNotBearerShape = &Error{
		Kind:        KindMalformedAuthHeader,
		Code:        "invalid_authorization_header",
		Description: "Authorization header must be bearer token.",
		Status:      http.StatusUnauthorized,
	}

	ErrNotBearerScheme = &Error{
		Kind:        KindMalformedAuthHeader,
		Code:        "invalid_authorization_header",
		Description: `Authorization header must start with "Bearer".`,
		Status:      http.StatusUnauthorized,
	}

	// ErrMissingKeyID is the 401 variant of invalid_header: the token
	// parsed but names no signing key.
	ErrMissingKeyID = &Error{
		Kind:        KindInvalidHeader,
		Code:        "invalid_header",
		Description: "Authorization malformed.",
		Status:      http.StatusUnauthorized,
	}

	ErrUnparseableToken = &Error{
		Kind:        KindInvalidHeader,
		Code:        "invalid_header",
		Description: "Unable to parse authentication token.",
		Status:      http.StatusBadRequest,
	}

	ErrSigningKeyNotFound = &Error{
		Kind:        KindInvalidHeader,
		Code:        "invalid_header",
		Description: "Unable to find the appropriate key.",
		Status:      http.StatusBadRequest,
	}

	ErrTokenExpired = &Error{
		Kind:        KindTokenExpired,
		Code:        "token_expired",
		Description: "Token expired.",
		Status:      http.StatusUnauthorized,
	}

	ErrInvalidClaims = &Error{
		Kind:        KindInvalidClaims,
		Code:        "invalid_claims",
		Description: "Incorrect claims. Please, check the audience and issuer.",
		Status:      http.StatusUnauthorized,
	}

	ErrPermissionsClaimMissing = &Error{
		Kind:        KindPermissionsClaimMissing,
		Code:        "invalid_claims",
		Description: "Permissions not included in JWT.",
		Status:      http.StatusBadRequest,
	}

	ErrPermissionNotGranted = &Error{
		Kind:        KindPermissionNotGranted,
		Code:        "unauthorized",
		Description: "Permission not found.",
		Status:      http.StatusUnauthorized,
	}

	ErrKeySetUnavailable = &Error{
		Kind:        KindKeySetUnavailable,
		Code:        "key_set_unavailable",
		Description: "Unable to fetch the signing key set.",
		Status:      http.StatusServiceUnavailable,
	}
)

// AsError extracts an *Error from err. Errors that did not originate in
// the guard chain are reported as ok == false.
func AsError(err error) (*Error, bool) {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or "" if err is not an auth failure.
func KindOf(err error) Kind {
	if authErr, ok := AsError(err); ok {
		return authErr.Kind
	}
	return ""
}
