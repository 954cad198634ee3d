package driven

import (
	"context"

	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
)

// TokenExchanger performs the token-endpoint exchange in its two modes.
// Both modes return the same result shape. ExpiresIn stays relative: the
// caller derives the absolute expiry at the moment of receipt, which keeps
// implementations free of clock dependence.
type TokenExchanger interface {
	// ExchangeCode trades a one-time authorization code for a token pair.
	// A non-success response fails with domain.ErrTokenExchangeFailed
	// carrying the provider's response body verbatim.
	ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (domain.TokenPair, error)

	// ExchangeRefresh trades a refresh token for a new token pair.
	// A non-success response fails with domain.ErrRefreshFailed; the
	// refresh token may have been revoked and re-authorization is then
	// required.
	ExchangeRefresh(ctx context.Context, refreshToken, clientID, clientSecret string) (domain.TokenPair, error)
}
