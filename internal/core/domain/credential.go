package domain

import "time"

// ExpirySkew is the safety margin subtracted from the literal expiry instant
// when deciding staleness. Refreshing this early avoids using a token that
// would expire while a request is in flight.
const ExpirySkew = 5 * time.Minute

// Credential holds the OAuth application credentials and the tokens issued
// for them. A single record is persisted per user. The client pair is
// long-lived and user-supplied; refreshing mutates only the token fields.
type Credential struct {
	// ClientID identifies the OAuth application registered with the provider.
	ClientID string `json:"client_id"`
	// ClientSecret is the application secret paired with ClientID.
	ClientSecret string `json:"client_secret"`
	// AccessToken is the short-lived bearer token used on every API call.
	AccessToken string `json:"access_token"`
	// RefreshToken obtains new access tokens without user interaction.
	RefreshToken string `json:"refresh_token"`
	// Expiry is the absolute instant after which AccessToken is unusable.
	Expiry time.Time `json:"expiry"`
}

// TokenPair is the result of a token-endpoint exchange. ExpiresIn is kept as
// the provider's relative value; callers derive an absolute expiry at the
// moment of receipt.
type TokenPair struct {
	AccessToken string
	// RefreshToken may be empty: the provider omits it to mean "unchanged".
	RefreshToken string
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int
}

// IsAuthenticated reports whether the credential has ever completed an
// authorization flow. An empty access token means "never authenticated".
func (c Credential) IsAuthenticated() bool {
	return c.AccessToken != ""
}

// IsStale reports whether the access token should be refreshed before use.
// A credential is stale once now reaches Expiry minus the skew.
func (c Credential) IsStale(now time.Time) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return !now.Before(c.Expiry.Add(-ExpirySkew))
}

// WithTokens returns a copy of the credential updated with a freshly issued
// token pair. The client pair is preserved, the expiry is derived from now,
// and an empty or omitted refresh token keeps the prior value so a valid
// refresh token is never dropped.
func (c Credential) WithTokens(pair TokenPair, now time.Time) Credential {
	next := c
	next.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		next.RefreshToken = pair.RefreshToken
	}
	next.Expiry = now.Add(time.Duration(pair.ExpiresIn) * time.Second)
	return next
}
