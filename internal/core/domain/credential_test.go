package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredential_IsAuthenticated(t *testing.T) {
	tests := []struct {
		name string
		cred Credential
		want bool
	}{
		{
			name: "empty credential",
			cred: Credential{},
			want: false,
		},
		{
			name: "client pair only",
			cred: Credential{ClientID: "id", ClientSecret: "secret"},
			want: false,
		},
		{
			name: "with access token",
			cred: Credential{AccessToken: "T"},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cred.IsAuthenticated())
		})
	}
}

func TestCredential_IsStale_Boundary(t *testing.T) {
	expiry := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	cred := Credential{AccessToken: "T", Expiry: expiry}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{
			name: "well before skew window",
			now:  expiry.Add(-time.Hour),
			want: false,
		},
		{
			name: "one second before skew window",
			now:  expiry.Add(-ExpirySkew - time.Second),
			want: false,
		},
		{
			name: "exactly at expiry minus skew",
			now:  expiry.Add(-ExpirySkew),
			want: true,
		},
		{
			name: "inside skew window",
			now:  expiry.Add(-time.Minute),
			want: true,
		},
		{
			name: "at expiry",
			now:  expiry,
			want: true,
		},
		{
			name: "after expiry",
			now:  expiry.Add(time.Hour),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cred.IsStale(tt.now))
		})
	}
}

func TestCredential_IsStale_ZeroExpiry(t *testing.T) {
	cred := Credential{AccessToken: "T"}

	assert.False(t, cred.IsStale(time.Now()))
}

func TestCredential_WithTokens(t *testing.T) {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	cred := Credential{
		ClientID:     "client",
		ClientSecret: "secret",
		AccessToken:  "old-access",
		RefreshToken: "old-refresh",
		Expiry:       now.Add(-time.Hour),
	}

	next := cred.WithTokens(TokenPair{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		ExpiresIn:    3600,
	}, now)

	assert.Equal(t, "client", next.ClientID)
	assert.Equal(t, "secret", next.ClientSecret)
	assert.Equal(t, "new-access", next.AccessToken)
	assert.Equal(t, "new-refresh", next.RefreshToken)
	assert.Equal(t, now.Add(time.Hour), next.Expiry)

	// The receiver is not mutated.
	assert.Equal(t, "old-access", cred.AccessToken)
}

func TestCredential_WithTokens_OmittedRefreshTokenKeepsPrior(t *testing.T) {
	now := time.Now()
	cred := Credential{RefreshToken: "keep-me"}

	next := cred.WithTokens(TokenPair{AccessToken: "A", ExpiresIn: 60}, now)

	assert.Equal(t, "keep-me", next.RefreshToken)
	assert.Equal(t, "A", next.AccessToken)
}
