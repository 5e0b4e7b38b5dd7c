package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/pratik-mahalle/nutriscan/internal/config"
	"github.com/pratik-mahalle/nutriscan/internal/domain/user"
)

const githubAPI = "https://api.github.com"

// GitHubProvider signs users in with GitHub
type GitHubProvider struct {
	conf    *oauth2.Config
	baseURL string
}

// NewGitHubProvider returns nil when GitHub sign-in is not configured
func NewGitHubProvider(cfg config.GitHubOAuthConfig) *GitHubProvider {
	if cfg.ClientID == "" {
		return nil
	}
	return &GitHubProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		baseURL: githubAPI,
	}
}

func (g *GitHubProvider) Name() string { return user.ProviderGitHub }

func (g *GitHubProvider) AuthCodeURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHubProvider) Identify(ctx context.Context, code string) (*user.ProviderIdentity, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: code exchange: %w", err)
	}
	client := g.conf.Client(ctx, tok)

	var u githubUser
	if err := g.get(ctx, client, "/user", &u); err != nil {
		return nil, err
	}

	// The profile email is empty when the user keeps it private.
	email := u.Email
	if email == "" {
		var emails []githubEmail
		if err := g.get(ctx, client, "/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return nil, fmt.Errorf("github: account has no verified email")
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}
	return &user.ProviderIdentity{
		Provider:   user.ProviderGitHub,
		ProviderID: strconv.FormatInt(u.ID, 10),
		Email:      email,
		Name:       name,
		AvatarURL:  u.AvatarURL,
	}, nil
}

func (g *GitHubProvider) get(ctx context.Context, client *http.Client, path string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github: %s returned %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
