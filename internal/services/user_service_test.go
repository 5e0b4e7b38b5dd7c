package services

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pratik-mahalle/nutriscan/internal/auth"
	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/user"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
	"github.com/pratik-mahalle/nutriscan/internal/testutil"
)

const testSecret = "test-secret"

type fakeProvider struct {
	identity *user.ProviderIdentity
	err      error
}

func (f *fakeProvider) Name() string { return user.ProviderGoogle }

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (f *fakeProvider) Identify(context.Context, string) (*user.ProviderIdentity, error) {
	return f.identity, f.err
}

func newTestUserService(providers ...auth.Provider) (*UserService, *testutil.Repos) {
	repos := testutil.NewRepos(kv.NewMemoryStore())
	svc := NewUserService(repos.Users, repos.Sessions, UserServiceConfig{
		JWTSecret:  testSecret,
		SessionTTL: time.Hour,
		BCryptCost: bcrypt.MinCost,
	}, testutil.NewTestLogger(), providers...)
	return svc, repos
}

func TestUserService_SignUp(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantCode string
	}{
		{"successful sign up", "test@example.com", "secret123", ""},
		{"invalid email", "not-an-email", "secret123", errors.ErrCodeValidation},
		{"short password", "short@example.com", "abc", errors.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestUserService()
			res, err := service.SignUp(context.Background(), tt.email, tt.password, "")

			if tt.wantCode != "" {
				if !errors.HasCode(err, tt.wantCode) {
					t.Errorf("SignUp() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignUp() error = %v", err)
			}
			if res.Token == "" {
				t.Error("SignUp() returned no token")
			}
			if res.User.PasswordHash != "" {
				t.Error("SignUp() leaked the password hash")
			}
			if res.User.Name != "test" {
				t.Errorf("SignUp() name = %q, want %q", res.User.Name, "test")
			}
		})
	}
}

func TestUserService_SignUpDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestUserService()

	if _, err := service.SignUp(ctx, "dup@example.com", "secret123", "A"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	_, err := service.SignUp(ctx, "DUP@example.com", "secret123", "B")
	if !errors.HasCode(err, errors.ErrCodeConflict) {
		t.Errorf("SignUp() duplicate error = %v, want conflict", err)
	}
}

func TestUserService_SignInAndCurrentUser(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestUserService()

	created, err := service.SignUp(ctx, "me@example.com", "secret123", "Me")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if _, err := service.SignIn(ctx, "me@example.com", "wrong-pass"); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("SignIn() wrong password error = %v, want unauthorized", err)
	}
	if _, err := service.SignIn(ctx, "nobody@example.com", "secret123"); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("SignIn() unknown email error = %v, want unauthorized", err)
	}

	res, err := service.SignIn(ctx, "me@example.com", "secret123")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	u, err := service.CurrentUser(ctx, res.Token)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if u.ID != created.User.ID {
		t.Errorf("CurrentUser() id = %s, want %s", u.ID, created.User.ID)
	}
}

func TestUserService_SignOutEndsSession(t *testing.T) {
	ctx := context.Background()
	service, repos := newTestUserService()

	res, err := service.SignUp(ctx, "out@example.com", "secret123", "")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if err := service.SignOut(ctx, res.Token); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	if _, err := service.CurrentUser(ctx, res.Token); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("CurrentUser() after sign out error = %v, want unauthorized", err)
	}
	if _, err := repos.Users.GetByID(ctx, res.User.ID); err != nil {
		t.Errorf("account removed on sign out: %v", err)
	}
}

func TestUserService_GuestDataPurgedOnSignOut(t *testing.T) {
	ctx := context.Background()
	service, repos := newTestUserService()

	res, err := service.ContinueAsGuest(ctx, "")
	if err != nil {
		t.Fatalf("ContinueAsGuest() error = %v", err)
	}
	if !res.User.IsGuest || res.User.Name != "Guest" {
		t.Errorf("ContinueAsGuest() user = %+v", res.User)
	}

	recorder := NewHistoryRecorder(repos.History, 10, testutil.NewTestLogger())
	if _, err := recorder.Record(ctx, res.User.ID, testutil.HealthyProduct, analysis.Result{}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := service.SignOut(ctx, res.Token); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}

	keys, err := repos.Store.Keys(ctx, kv.UserPrefix(res.User.ID))
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("guest keys left after sign out: %v", keys)
	}
}

func TestUserService_CurrentUserRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestUserService()

	if _, err := service.CurrentUser(ctx, "garbage"); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("CurrentUser(garbage) error = %v, want unauthorized", err)
	}

	forged, _, err := auth.MintToken("u1", "s1", false, "other-secret", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}
	if _, err := service.CurrentUser(ctx, forged); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("CurrentUser(forged) error = %v, want unauthorized", err)
	}

	orphan, _, _ := auth.MintToken("u1", "no-such-session", false, testSecret, time.Hour, time.Now())
	if _, err := service.CurrentUser(ctx, orphan); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("CurrentUser(orphan) error = %v, want unauthorized", err)
	}
}

func TestUserService_SignInWithProvider(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{identity: &user.ProviderIdentity{
		Provider:   user.ProviderGoogle,
		ProviderID: "g-123",
		Email:      "jane@example.com",
		Name:       "Jane",
		AvatarURL:  "https://example.com/jane.png",
	}}
	service, _ := newTestUserService(provider)

	url, err := service.ProviderLoginURL(user.ProviderGoogle, "xyz")
	if err != nil || url == "" {
		t.Fatalf("ProviderLoginURL() = %q, %v", url, err)
	}
	if _, err := service.ProviderLoginURL("github", "xyz"); !errors.HasCode(err, errors.ErrCodeBadRequest) {
		t.Errorf("ProviderLoginURL(github) error = %v, want bad request", err)
	}

	first, err := service.SignInWithProvider(ctx, user.ProviderGoogle, "code")
	if err != nil {
		t.Fatalf("SignInWithProvider() error = %v", err)
	}
	if first.User.Provider != user.ProviderGoogle || first.User.ProviderID != "g-123" {
		t.Errorf("SignInWithProvider() user = %+v", first.User)
	}

	second, err := service.SignInWithProvider(ctx, user.ProviderGoogle, "code")
	if err != nil {
		t.Fatalf("SignInWithProvider() again error = %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Errorf("second sign-in created a new user %s, want %s", second.User.ID, first.User.ID)
	}

	provider.err = errors.Unauthorized("denied")
	if _, err := service.SignInWithProvider(ctx, user.ProviderGoogle, "code"); !errors.HasCode(err, errors.ErrCodeUnauthorized) {
		t.Errorf("SignInWithProvider() failing provider error = %v, want unauthorized", err)
	}
}

func TestUserService_ProviderLinksExistingAccount(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{identity: &user.ProviderIdentity{
		Provider: user.ProviderGoogle, ProviderID: "g-9", Email: "link@example.com", Name: "Link",
	}}
	service, _ := newTestUserService(provider)

	created, err := service.SignUp(ctx, "link@example.com", "secret123", "Link")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	res, err := service.SignInWithProvider(ctx, user.ProviderGoogle, "code")
	if err != nil {
		t.Fatalf("SignInWithProvider() error = %v", err)
	}
	if res.User.ID != created.User.ID {
		t.Errorf("provider sign-in id = %s, want linked %s", res.User.ID, created.User.ID)
	}
	if res.User.ProviderID != "g-9" {
		t.Errorf("provider id = %q, want g-9", res.User.ProviderID)
	}
}
