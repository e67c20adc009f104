package google

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthConfigRequestsReadonlyScopeOnly(t *testing.T) {
	conf := OAuthConfig(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3001/auth/google/callback",
	})

	assert.Equal(t, []string{"https://www.googleapis.com/auth/calendar.readonly"}, conf.Scopes)
	assert.Equal(t, "http://localhost:3001/auth/google/callback", conf.RedirectURL)
}

func TestAuthCodeURLRequestsOfflineConsent(t *testing.T) {
	conf := OAuthConfig(Config{ClientID: "client-id"})

	raw := AuthCodeURL(conf, "state")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "state", q.Get("state"))
	assert.Equal(t, "client-id", q.Get("client_id"))
}
