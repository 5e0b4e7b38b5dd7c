package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/nutriscan/internal/auth"
	"github.com/pratik-mahalle/nutriscan/internal/domain/user"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
)

const (
	minPasswordLength = 6
	defaultGuestName  = "Guest"
)

// UserService implements user.Service
type UserService struct {
	repo       user.Repository
	sessions   user.SessionRepository
	providers  map[string]auth.Provider
	secret     string
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
	logger     *logger.Logger
}

// UserServiceConfig holds token and hashing settings
type UserServiceConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	BCryptCost int
}

// NewUserService creates a new user service
func NewUserService(repo user.Repository, sessions user.SessionRepository, cfg UserServiceConfig, log *logger.Logger, providers ...auth.Provider) *UserService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * 24 * time.Hour
	}
	if cfg.BCryptCost == 0 {
		cfg.BCryptCost = bcrypt.DefaultCost
	}
	s := &UserService{
		repo:       repo,
		sessions:   sessions,
		providers:  make(map[string]auth.Provider),
		secret:     cfg.JWTSecret,
		sessionTTL: cfg.SessionTTL,
		bcryptCost: cfg.BCryptCost,
		now:        time.Now,
		logger:     log,
	}
	for _, p := range providers {
		if p != nil {
			s.providers[p.Name()] = p
		}
	}
	return s
}

// SignUp creates a password account and signs it in
func (s *UserService) SignUp(ctx context.Context, email, password, name string) (*user.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validator.ValidateVar(email, "required,email"); err != nil {
		return nil, errors.ValidationError("A valid email is required", map[string]string{"email": email})
	}
	if len(password) < minPasswordLength {
		return nil, errors.ValidationError("Password is too short", map[string]int{"min_length": minPasswordLength})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Provider:     user.ProviderPassword,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("User created")

	return s.startSession(ctx, u)
}

// SignIn checks credentials and starts a session
func (s *UserService) SignIn(ctx context.Context, email, password string) (*user.AuthResult, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			return nil, errors.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, errors.Unauthorized("This account signs in with " + u.Provider)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errors.Unauthorized("Invalid email or password")
	}
	return s.startSession(ctx, u)
}

// ProviderLoginURL returns the consent page of a configured provider
func (s *UserService) ProviderLoginURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", errors.BadRequest("Unsupported sign-in provider: " + provider)
	}
	return p.AuthCodeURL(state), nil
}

// SignInWithProvider completes an external provider flow. An existing
// account with the same email is linked rather than duplicated.
func (s *UserService) SignInWithProvider(ctx context.Context, provider, code string) (*user.AuthResult, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, errors.BadRequest("Unsupported sign-in provider: " + provider)
	}
	if code == "" {
		return nil, errors.BadRequest("Missing authorization code")
	}

	id, err := p.Identify(ctx, code)
	if err != nil {
		s.logger.WarnWithErr(err, "Provider sign-in failed")
		return nil, errors.Unauthorized("Sign-in with " + provider + " failed")
	}

	u, err := s.repo.GetByEmail(ctx, id.Email)
	switch {
	case err == nil:
		if u.ProviderID == "" || u.AvatarURL == "" {
			if u.ProviderID == "" {
				u.ProviderID = id.ProviderID
			}
			if u.AvatarURL == "" {
				u.AvatarURL = id.AvatarURL
			}
			if err := s.repo.Update(ctx, u); err != nil {
				return nil, err
			}
		}
	case errors.HasCode(err, errors.ErrCodeNotFound):
		u = &user.User{
			ID:         uuid.NewString(),
			Email:      strings.ToLower(id.Email),
			Name:       id.Name,
			AvatarURL:  id.AvatarURL,
			Provider:   id.Provider,
			ProviderID: id.ProviderID,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, err
		}
		s.logger.WithFields(map[string]interface{}{
			"user_id":  u.ID,
			"provider": u.Provider,
		}).Info("User created")
	default:
		return nil, err
	}

	return s.startSession(ctx, u)
}

// ContinueAsGuest creates a local-only identity
func (s *UserService) ContinueAsGuest(ctx context.Context, name string) (*user.AuthResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultGuestName
	}
	u := &user.User{
		ID:       "guest-" + uuid.NewString(),
		Name:     name,
		Provider: user.ProviderGuest,
		IsGuest:  true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.startSession(ctx, u)
}

// SignOut ends the session. A guest's documents do not outlive it.
func (s *UserService) SignOut(ctx context.Context, token string) error {
	claims, err := auth.ParseClaims(token, s.secret)
	if err != nil {
		return errors.Unauthorized("Invalid token")
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		return err
	}

	if claims.Guest {
		if err := s.repo.Delete(ctx, claims.UserID); err != nil {
			return err
		}
		s.logger.With("user_id", claims.UserID).Info("Guest data purged")
	}
	return nil
}

// CurrentUser resolves a token to its user. The token must be valid and its
// session still stored.
func (s *UserService) CurrentUser(ctx context.Context, token string) (*user.User, error) {
	claims, err := auth.ParseClaims(token, s.secret)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token")
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			return nil, errors.Unauthorized("Session has ended")
		}
		return nil, err
	}
	if sess.UserID != claims.UserID || s.now().After(sess.ExpiresAt) {
		return nil, errors.Unauthorized("Session has ended")
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			return nil, errors.Unauthorized("User no longer exists")
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) startSession(ctx context.Context, u *user.User) (*user.AuthResult, error) {
	now := s.now()
	sess := &user.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(s.sessionTTL).UTC(),
	}
	token, expires, err := auth.MintToken(u.ID, sess.ID, u.IsGuest, s.secret, s.sessionTTL, now)
	if err != nil {
		return nil, errors.Internal("Failed to sign token", err)
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	return &user.AuthResult{
		User:      u.Public(),
		Token:     token,
		ExpiresAt: expires.UTC(),
	}, nil
}
