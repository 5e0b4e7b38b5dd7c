package dto

import "time"

// SignInRequest represents a sign-in request
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignUpRequest represents a sign-up request
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// GuestRequest starts a guest session
type GuestRequest struct {
	Name string `json:"name,omitempty" validate:"omitempty,max=100"`
}

// AuthResponse represents an authentication response
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// ProviderLoginResponse tells the client where to start a provider flow
type ProviderLoginResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}
