package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/pratik-mahalle/nutriscan/internal/config"
	"github.com/pratik-mahalle/nutriscan/internal/domain/user"
)

// Provider is an external identity provider using the authorization code flow
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	// Identify exchanges a code and returns who signed in
	Identify(ctx context.Context, code string) (*user.ProviderIdentity, error)
}

// GoogleProvider signs users in with Google
type GoogleProvider struct {
	conf *oauth2.Config
}

// NewGoogleProvider returns nil when Google sign-in is not configured
func NewGoogleProvider(cfg config.GoogleOAuthConfig) *GoogleProvider {
	if cfg.ClientID == "" {
		return nil
	}
	return &GoogleProvider{conf: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}}
}

func (g *GoogleProvider) Name() string { return user.ProviderGoogle }

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *GoogleProvider) Identify(ctx context.Context, code string) (*user.ProviderIdentity, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google: code exchange: %w", err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(g.conf.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("google: userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("google: userinfo: %w", err)
	}

	return &user.ProviderIdentity{
		Provider:   user.ProviderGoogle,
		ProviderID: info.Id,
		Email:      info.Email,
		Name:       info.Name,
		AvatarURL:  info.Picture,
	}, nil
}

// RandomState returns an unguessable OAuth state value
func RandomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
