package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rhythmicsouls/auth-gateway/internal/domain"
	"github.com/rhythmicsouls/auth-gateway/internal/dto"
	"github.com/rhythmicsouls/auth-gateway/internal/service"
	"github.com/rhythmicsouls/auth-gateway/internal/store"
	"github.com/rhythmicsouls/auth-gateway/internal/utils"
)

const sessionCookieName = "session"

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
	sessionTTL  time.Duration
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, sessionTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessionTTL:  sessionTTL,
		logger:      logger,
	}
}

// sessionToken extracts the session token from the Cookie header.
// Missing cookie comes back as an empty string.
func sessionToken(c *gin.Context) string {
	return utils.ParseCookies(c.GetHeader("Cookie"))[sessionCookieName]
}

// requestIsSecure reports whether the request was served over HTTPS,
// directly or behind a TLS-terminating proxy.
func requestIsSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, int(h.sessionTTL.Seconds()), "/", "", requestIsSecure(c), true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", requestIsSecure(c), true)
}

// Register handles user registration with email and password. A fresh
// session cookie is set on success.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Error:   "Conflict",
				Message: "An account with this email already exists",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Message: "Invalid email format",
			})
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal error",
			Message: "Registration failed",
		})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, dto.NewUserResponse(user))
}

// Login handles email/password login and sets a session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid email or password",
			})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal error",
			Message: "Login failed",
		})
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Google serves both halves of the OAuth flow on a single route: with
// no code parameter it redirects the browser to Google's consent page,
// and with one it completes the callback.
func (h *AuthHandler) Google(c *gin.Context) {
	// A provider error on the callback never reaches the token
	// exchange.
	if provErr := c.Query("error"); provErr != "" {
		err := fmt.Errorf("%w: %s", service.ErrOAuthProvider, provErr)
		h.logger.Warn("google callback failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/?auth=error&reason="+url.QueryEscape(provErr))
		return
	}

	code := c.Query("code")
	if code == "" {
		h.googleRedirect(c)
		return
	}
	h.googleCallback(c)
}

func (h *AuthHandler) googleRedirect(c *gin.Context) {
	authURL, err := h.authService.GoogleLoginURL(c.Request.Host, c.GetHeader("X-Forwarded-Proto"))
	if err != nil {
		if errors.Is(err, service.ErrOAuthNotConfigured) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad request",
				Message: "Google OAuth is not configured",
			})
			return
		}
		h.logger.Error("failed to build authorization URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal error",
			Message: "Failed to start Google login",
		})
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

func (h *AuthHandler) googleCallback(c *gin.Context) {
	user, token, err := h.authService.HandleGoogleCallback(
		c.Request.Context(),
		c.Request.Host,
		c.GetHeader("X-Forwarded-Proto"),
		c.Query("code"),
		c.Query("state"),
		sessionToken(c),
	)
	if err != nil {
		if errors.Is(err, service.ErrOAuthNotConfigured) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Bad request",
				Message: "Google OAuth is not configured",
			})
			return
		}

		reason := "oauth_failed"
		switch {
		case errors.Is(err, service.ErrOAuthState):
			reason = "invalid_state"
		case errors.Is(err, service.ErrTokenExchange):
			reason = "token_exchange_failed"
		case errors.Is(err, service.ErrProfileFetch):
			reason = "profile_fetch_failed"
		}
		h.logger.Warn("google callback failed", zap.String("reason", reason), zap.Error(err))
		c.Redirect(http.StatusFound, "/?auth=error&reason="+url.QueryEscape(reason))
		return
	}

	h.logger.Info("google login", zap.String("email", user.Email))
	h.setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/?auth=success")
}

// GetMe returns the user resolved by RequireSession.
func (h *AuthHandler) GetMe(c *gin.Context) {
	value, exists := c.Get("user")
	user, ok := value.(*domain.User)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Logout deletes the session and clears the cookie. It succeeds even
// without a session so stale cookies can always be cleared.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), sessionToken(c)); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal error",
			Message: "Logout failed",
		})
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}
