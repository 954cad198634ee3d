package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Every error below is
// terminal for the current operation: no silent retries, no automatic
// fallback from refresh failure to re-authorization.
var (
	// ErrPortUnavailable indicates the callback listener could not bind its
	// local port. The user must free the port or retry later.
	ErrPortUnavailable = errors.New("callback port unavailable")

	// ErrOAuthDenied indicates the provider reported an authorization error
	// on the redirect. The user must restart the flow.
	ErrOAuthDenied = errors.New("authorization denied by provider")

	// ErrAuthTimeout indicates no callback arrived within the wait window.
	ErrAuthTimeout = errors.New("timed out waiting for authorization callback")

	// ErrTokenExchangeFailed indicates the provider rejected the
	// authorization-code exchange. Wrapped errors carry the provider's
	// response body verbatim for diagnosis.
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// ErrRefreshFailed indicates the provider rejected a token refresh.
	// The refresh token may have been revoked; re-authorization is required.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrNotAuthenticated indicates no credential is on record.
	// The user must run the authorization flow first.
	ErrNotAuthenticated = errors.New("not authenticated")
)
