package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/nutriscan/internal/api/dto"
	"github.com/pratik-mahalle/nutriscan/internal/api/middleware"
	"github.com/pratik-mahalle/nutriscan/internal/auth"
	"github.com/pratik-mahalle/nutriscan/internal/config"
	"github.com/pratik-mahalle/nutriscan/internal/domain/user"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/errors"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/utils"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
)

const stateCookie = "oauthState"

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService user.Service
	config      *config.Config
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService user.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		config:      cfg,
		logger:      log,
		validator:   val,
	}
}

// SignUp creates a password account
// @Summary Sign up
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Account details"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 409 {object} utils.ErrorResponse "Email already registered"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.userService.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	h.respondAuth(w, http.StatusCreated, res)
}

// SignIn handles password sign-in
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.userService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"email": req.Email,
		}).Warn("Authentication failed")
		utils.WriteErr(w, err)
		return
	}
	h.respondAuth(w, http.StatusOK, res)
}

// Guest starts a local-only session. Its data is removed at sign-out.
func (h *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	var req dto.GuestRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.userService.ContinueAsGuest(r.Context(), req.Name)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	h.respondAuth(w, http.StatusCreated, res)
}

// SignOut ends the current session
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.SignOut(r.Context(), middleware.GetToken(r)); err != nil {
		utils.WriteErr(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Signed out", nil)
}

// Me returns the signed-in user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.UserDTO
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.GetUser(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Authentication required"))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.FromUser(*u))
}

// ProviderLogin returns the provider consent URL and sets the state cookie
func (h *AuthHandler) ProviderLogin(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	state := auth.RandomState()

	url, err := h.userService.ProviderLoginURL(provider, state)
	if err != nil {
		utils.WriteErr(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
	utils.WriteSuccess(w, http.StatusOK, dto.ProviderLoginResponse{URL: url, State: state})
}

// ProviderCallback completes a provider sign-in
func (h *AuthHandler) ProviderCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	q := r.URL.Query()

	if msg := q.Get("error"); msg != "" {
		utils.WriteError(w, errors.Unauthorized("Sign-in was cancelled: "+msg))
		return
	}
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != q.Get("state") {
		utils.WriteError(w, errors.BadRequest("Invalid OAuth state"))
		return
	}

	res, err := h.userService.SignInWithProvider(r.Context(), provider, q.Get("code"))
	if err != nil {
		utils.WriteErr(w, err)
		return
	}
	h.respondAuth(w, http.StatusOK, res)
}

func (h *AuthHandler) respondAuth(w http.ResponseWriter, status int, res *user.AuthResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies(),
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteSuccess(w, status, dto.AuthResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      dto.FromUser(res.User),
	})
}

func (h *AuthHandler) secureCookies() bool {
	return h.config != nil && h.config.Server.Environment == "production"
}
