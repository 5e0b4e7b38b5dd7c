package client

import (
	"context"
	"time"
)

// SignInRequest represents a sign-in request
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest represents a registration request
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse represents a sign-in response
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// ProviderLogin is where to send the user for an external sign-in
type ProviderLogin struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// SignIn authenticates with email and password
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := SignInRequest{
		Email:    email,
		Password: password,
	}
	return c.authenticate(ctx, "/api/v1/auth/signin", req)
}

// SignUp creates a new password account and signs in
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	return c.authenticate(ctx, "/api/v1/auth/signup", req)
}

// ContinueAsGuest starts a guest session. Guest data is deleted at sign-out.
func (c *Client) ContinueAsGuest(ctx context.Context, name string) (*AuthResponse, error) {
	var body interface{}
	if name != "" {
		body = map[string]string{"name": name}
	}
	return c.authenticate(ctx, "/api/v1/auth/guest", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doRequest(ctx, "POST", path, body, &resp); err != nil {
		return nil, err
	}

	// Automatically set the token for future requests
	if resp.Token != "" {
		c.SetToken(resp.Token)
	}

	return &resp, nil
}

// ProviderLoginURL returns the consent URL of an external provider
func (c *Client) ProviderLoginURL(ctx context.Context, provider string) (*ProviderLogin, error) {
	var resp ProviderLogin
	if err := c.doRequest(ctx, "GET", "/api/v1/auth/"+provider+"/login", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCurrentUser retrieves the currently authenticated user
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.doRequest(ctx, "GET", "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignOut ends the current session
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.doRequest(ctx, "POST", "/api/v1/auth/signout", nil, nil); err != nil {
		return err
	}
	// Clear the token
	c.SetToken("")
	return nil
}
