package graph

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTokenProvider(t *testing.T) {
	p := NewStaticTokenProvider("fixed-token")

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed-token", tok)
}

func TestClientCredentialsProvider_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"negotiated-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	p := NewClientCredentialsProvider("tenant-1", "client-1", "secret-1")
	p.conf.TokenURL = srv.URL

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "negotiated-token", tok)
}

func TestClientCredentialsProvider_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client","error_description":"bad secret"}`))
	}))
	defer srv.Close()

	p := NewClientCredentialsProvider("tenant-1", "client-1", "wrong-secret")
	p.conf.TokenURL = srv.URL

	_, err := p.Token(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Contains(t, authErr.Error(), "client credential exchange failed")
}

func TestClientCredentialsProvider_TokenURL(t *testing.T) {
	p := NewClientCredentialsProvider("my-tenant", "c", "s")
	assert.Equal(t, "https://login.microsoftonline.com/my-tenant/oauth2/v2.0/token", p.conf.TokenURL)
	assert.Equal(t, []string{GraphScope}, p.conf.Scopes)
}
