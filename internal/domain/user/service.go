package user

import "context"

// Service defines the interface for identity and sessions
type Service interface {
	// SignUp creates a password account and signs it in
	SignUp(ctx context.Context, email, password, name string) (*AuthResult, error)

	// SignIn checks credentials and starts a session
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)

	// SignInWithProvider completes an external provider flow
	SignInWithProvider(ctx context.Context, provider, code string) (*AuthResult, error)

	// ProviderLoginURL returns where to send the user to start a provider flow
	ProviderLoginURL(provider, state string) (string, error)

	// ContinueAsGuest creates a local-only identity
	ContinueAsGuest(ctx context.Context, name string) (*AuthResult, error)

	// SignOut ends the session. Guest data is purged.
	SignOut(ctx context.Context, token string) error

	// CurrentUser resolves a token to its user
	CurrentUser(ctx context.Context, token string) (*User, error)
}
