package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lertsoft/oura-ring-cli/internal/core/domain"
	"github.com/lertsoft/oura-ring-cli/internal/core/ports/driven"
	"github.com/lertsoft/oura-ring-cli/internal/core/ports/driving"
	"github.com/lertsoft/oura-ring-cli/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService manages the credential lifecycle: first authorization,
// staleness detection, and transparent refresh. It owns the expiry-skew
// policy and writes every change back to the store before returning.
type AuthService struct {
	store      driven.CredentialStore
	exchanger  driven.TokenExchanger
	authorizer driven.Authorizer

	// now is the clock used for expiry derivation and staleness checks.
	// Injectable so tests need no sleeping.
	now func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(
	store driven.CredentialStore,
	exchanger driven.TokenExchanger,
	authorizer driven.Authorizer,
) *AuthService {
	return &AuthService{
		store:      store,
		exchanger:  exchanger,
		authorizer: authorizer,
		now:        time.Now,
	}
}

// Get loads the stored credential.
// Returns domain.ErrNotAuthenticated when no access token is on record.
func (s *AuthService) Get(ctx context.Context) (domain.Credential, error) {
	cred, err := s.store.Load(ctx)
	if err != nil {
		return domain.Credential{}, fmt.Errorf("load credential: %w", err)
	}
	if !cred.IsAuthenticated() {
		return domain.Credential{}, domain.ErrNotAuthenticated
	}
	return cred, nil
}

// EnsureFresh returns a credential with a usable access token.
// A stale credential triggers exactly one refresh exchange; the refreshed
// credential is persisted before it is returned. Refresh failure propagates
// unchanged: there is no retry and no fallback to re-authorization.
func (s *AuthService) EnsureFresh(ctx context.Context, cred domain.Credential) (domain.Credential, error) {
	if !cred.IsStale(s.now()) {
		return cred, nil
	}

	logger.Debug("access token stale (expiry %s), refreshing", cred.Expiry.Format(time.RFC3339))

	pair, err := s.exchanger.ExchangeRefresh(ctx, cred.RefreshToken, cred.ClientID, cred.ClientSecret)
	if err != nil {
		return domain.Credential{}, err
	}

	next := cred.WithTokens(pair, s.now())
	if err := s.store.Save(ctx, next); err != nil {
		return domain.Credential{}, fmt.Errorf("save refreshed credential: %w", err)
	}

	logger.Debug("token refreshed, new expiry %s", next.Expiry.Format(time.RFC3339))
	return next, nil
}

// Authenticate runs the authorization flow and the code exchange, then
// persists and returns the first credential for this client pair.
func (s *AuthService) Authenticate(ctx context.Context, clientID, clientSecret string) (domain.Credential, error) {
	code, err := s.authorizer.Authorize(ctx, clientID)
	if err != nil {
		return domain.Credential{}, err
	}

	pair, err := s.exchanger.ExchangeCode(ctx, code, clientID, clientSecret, s.authorizer.RedirectURI())
	if err != nil {
		return domain.Credential{}, err
	}

	cred := domain.Credential{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}.WithTokens(pair, s.now())

	if err := s.store.Save(ctx, cred); err != nil {
		return domain.Credential{}, fmt.Errorf("save credential: %w", err)
	}

	logger.Debug("authenticated, token expires %s", cred.Expiry.Format(time.RFC3339))
	return cred, nil
}
