package graph

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/clientcredentials"
)

// GraphScope is the default OAuth2 scope for application access
const GraphScope = "https://graph.microsoft.com/.default"

// TokenProvider obtains a bearer token for the Graph API
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider returns a fixed token. Used as the test/bypass path
// when a token is injected via configuration.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a provider returning the given token
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// Token returns the configured token unconditionally
func (p *StaticTokenProvider) Token(ctx context.Context) (string, error) {
	return p.token, nil
}

// ClientCredentialsProvider negotiates a bearer token with the identity
// provider using the OAuth2 client-credential flow. No caching across calls:
// every Token call may trigger a fresh negotiation.
type ClientCredentialsProvider struct {
	conf *clientcredentials.Config
}

// NewClientCredentialsProvider creates a provider for the given tenant
func NewClientCredentialsProvider(tenantID, clientID, clientSecret string) *ClientCredentialsProvider {
	return &ClientCredentialsProvider{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenantID),
			Scopes:       []string{GraphScope},
		},
	}
}

// Token performs the client-credential exchange
func (p *ClientCredentialsProvider) Token(ctx context.Context) (string, error) {
	tok, err := p.conf.Token(ctx)
	if err != nil {
		return "", &AuthError{Detail: "client credential exchange failed", Err: err}
	}
	if tok.AccessToken == "" {
		return "", &AuthError{Detail: "token response missing access token"}
	}
	return tok.AccessToken, nil
}
