package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/finlens/finlens_backend/internal/core/domain"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/finlens/finlens_backend/internal/middleware"
	"github.com/finlens/finlens_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/idtoken"
)

// oauthStateCookieName stores the CSRF state between the login redirect and
// the provider callback.
const oauthStateCookieName = "oauth_state"

// GoogleOAuthHandler handles Google OAuth related requests.
type GoogleOAuthHandler struct {
	auth               *AuthHandler
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	cfg                *config.Config
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(auth *AuthHandler, googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade, cfg *config.Config) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		auth:               auth,
		googleOAuthService: googleOAuthService,
		cfg:                cfg,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(NewAuthHandler(services.User, services.Token, cfg), services.GoogleOAuth, cfg)

	googleRoutes := rg.Group("/api/v1/auth/google")
	{
		googleRoutes.GET("/login", h.LoginGoogle)
		googleRoutes.GET("/callback", h.CallbackGoogle)
		googleRoutes.POST("/exchange-code", h.ExchangeCodeGoogle)
		googleRoutes.POST("/id-token", h.LoginWithIDToken)
	}
}

// LoginGoogle godoc
// @Summary Start Google login
// @Description Redirects the browser to Google's consent screen. A CSRF state cookie is set for the callback.
// @Tags oauth
// @Success 307
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) LoginGoogle(c *gin.Context) {
	state, err := h.googleOAuthService.GenerateStateString(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to start Google login")
		return
	}

	// State cookie only needs to survive the round trip to Google.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, state, 600, "/api/v1/auth/google", "", h.cfg.IsProduction, true)

	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthService.GetGoogleLoginURL(c.Request.Context(), state))
}

// CallbackGoogle godoc
// @Summary Google login callback
// @Description Handles the redirect back from Google: verifies the CSRF state, exchanges the code, signs the user in and redirects to the frontend with an access token.
// @Tags oauth
// @Success 307
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) CallbackGoogle(c *gin.Context) {
	stateCookie, err := c.Cookie(oauthStateCookieName)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	// The state is single use.
	c.SetCookie(oauthStateCookieName, "", -1, "/api/v1/auth/google", "", h.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code missing"})
		return
	}

	resp, err := h.loginWithCode(c, code)
	if err != nil {
		respondError(c, err, "Google login failed")
		return
	}

	redirectURL := strings.TrimSuffix(h.cfg.FrontendBaseURL, "/") + "/auth/callback#token=" + resp.AccessToken
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

// ExchangeCodeGoogle godoc
// @Summary Exchange authorization code for tokens
// @Description Exchanges a Google authorization code obtained by the frontend for application tokens.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *GoogleOAuthHandler) ExchangeCodeGoogle(c *gin.Context) {
	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.loginWithCode(c, req.Code)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
			return
		}
		respondError(c, err, "Google login failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LoginWithIDToken godoc
// @Summary Login with a Google ID token
// @Description Signs in using an ID token obtained natively (mobile or one-tap), without the code exchange.
// @Tags oauth
// @Accept json
// @Produce json
// @Param idToken body dto.GoogleIDTokenRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/id-token [post]
func (h *GoogleOAuthHandler) LoginWithIDToken(c *gin.Context) {
	var req dto.GoogleIDTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	resp, err := h.loginWithPayload(c, payload)
	if err != nil {
		respondError(c, err, "Google login failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExchangeCodeRequest defines the expected JSON body for the exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// loginWithCode exchanges the authorization code with Google, validates the
// returned ID token and signs the user in.
func (h *GoogleOAuthHandler) loginWithCode(c *gin.Context, code string) (*dto.LoginResponse, error) {
	ctx := c.Request.Context()

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, err
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		return nil, errors.New("ID token missing from Google token response")
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		return nil, err
	}

	return h.loginWithPayload(c, payload)
}

// loginWithPayload resolves the application user from a validated Google ID
// token payload and issues tokens for them.
func (h *GoogleOAuthHandler) loginWithPayload(c *gin.Context, payload *idtoken.Payload) (*dto.LoginResponse, error) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	info, err := googleUserInfoFromPayload(payload)
	if err != nil {
		return nil, err
	}

	user, err := h.auth.userService.FindOrCreateGoogleUser(ctx, *info)
	if err != nil {
		return nil, err
	}
	logger.Info("User signed in via Google", slog.String("user_id", user.UserID))

	return h.auth.issueTokens(c, user)
}

// googleUserInfoFromPayload maps the ID token claims onto GoogleUserInfo.
func googleUserInfoFromPayload(payload *idtoken.Payload) (*domain.GoogleUserInfo, error) {
	email, _ := payload.Claims["email"].(string)
	if email == "" || payload.Subject == "" {
		return nil, errors.New("essential claims missing from Google ID token")
	}

	name, _ := payload.Claims["name"].(string)
	givenName, _ := payload.Claims["given_name"].(string)
	familyName, _ := payload.Claims["family_name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)

	return &domain.GoogleUserInfo{
		ID:            payload.Subject,
		Email:         email,
		VerifiedEmail: verified,
		Name:          name,
		GivenName:     givenName,
		FamilyName:    familyName,
		Picture:       picture,
	}, nil
}
