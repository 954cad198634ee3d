// Package oauth performs the token-endpoint exchange against the Oura API.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
	"github.com/lertsoft/oura-ring-cli/internal/core/ports/driven"
)

// DefaultTokenURL is the Oura token endpoint.
//
//nolint:gosec // G101: not credentials, OAuth endpoint URL
const DefaultTokenURL = "https://api.ouraring.com/oauth/token"

// maxErrorBody caps how much of a provider error response is carried in the
// returned error.
const maxErrorBody = 4 << 10

// Ensure Exchanger implements the TokenExchanger port.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// Exchanger exchanges authorization codes and refresh tokens for token
// pairs via form-encoded POSTs to the token endpoint. It never touches the
// clock: ExpiresIn is returned as received and the caller derives the
// absolute expiry.
type Exchanger struct {
	tokenURL string
	client   *http.Client
}

// NewExchanger creates an exchanger for the given token endpoint.
// An empty URL selects the Oura default.
func NewExchanger(tokenURL string) *Exchanger {
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	return &Exchanger{
		tokenURL: tokenURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// tokenResponse is the provider's token endpoint response.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExchangeCode exchanges a one-time authorization code for a token pair.
func (e *Exchanger) ExchangeCode(
	ctx context.Context,
	code, clientID, clientSecret, redirectURI string,
) (domain.TokenPair, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)
	data.Set("redirect_uri", redirectURI)

	return e.post(ctx, data, domain.ErrTokenExchangeFailed)
}

// ExchangeRefresh exchanges a refresh token for a new token pair.
func (e *Exchanger) ExchangeRefresh(
	ctx context.Context,
	refreshToken, clientID, clientSecret string,
) (domain.TokenPair, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)

	return e.post(ctx, data, domain.ErrRefreshFailed)
}

// post sends the form-encoded request and decodes the token response.
// A non-success status wraps failKind with the response body verbatim so
// the provider's error text is never swallowed.
func (e *Exchanger) post(ctx context.Context, data url.Values, failKind error) (domain.TokenPair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.TokenPair{}, fmt.Errorf("%w: status %d: %s",
			failKind, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return domain.TokenPair{}, fmt.Errorf("decode token response: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		ExpiresIn:    tokenResp.ExpiresIn,
	}, nil
}
