package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rhythmicsouls/auth-gateway/internal/domain"
	"github.com/rhythmicsouls/auth-gateway/internal/dto"
	"github.com/rhythmicsouls/auth-gateway/internal/store"
	"github.com/rhythmicsouls/auth-gateway/internal/utils"
	"go.uber.org/zap"
)

// oauthCallTimeout bounds each outbound call to the OAuth provider so
// an unresponsive provider cannot stall the request indefinitely.
const oauthCallTimeout = 10 * time.Second

// authService implements AuthService over a store.Store. The OAuth
// provider is nil when GOOGLE_CLIENT_ID/SECRET are absent, which
// disables the Google entry point with a configuration error.
type authService struct {
	store      store.Store
	oauth      OAuthProvider
	state      *utils.StateSigner
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	st store.Store,
	oauth OAuthProvider,
	state *utils.StateSigner,
	bcryptCost int,
	logger *zap.Logger,
) AuthService {
	return &authService{
		store:      st,
		oauth:      oauth,
		state:      state,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new password-based account and mints a session.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, string, error) {
	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, "", ErrInvalidEmail
	}

	passwordHash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.store.CreateSession(ctx, email, "")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return user, token, nil
}

// Login authenticates an email/password pair and mints a session.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.User, string, error) {
	email := utils.NormalizeEmail(req.Email)

	user, err := s.store.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.store.CreateSession(ctx, email, "")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))
	return user, token, nil
}

// GoogleLoginURL builds the provider redirect for the request's host.
func (s *authService) GoogleLoginURL(host, forwardedProto string) (string, error) {
	if s.oauth == nil {
		return "", ErrOAuthNotConfigured
	}

	state, err := s.state.Sign()
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}

	callbackURL := utils.ComputeCallbackURL(host, forwardedProto)
	return s.oauth.AuthCodeURL(callbackURL, state), nil
}

// HandleGoogleCallback completes the authorization-code flow: verify
// state, exchange the code, fetch the profile, upsert the user and mint
// a session. A failure at any step leaves the user and session tables
// untouched.
func (s *authService) HandleGoogleCallback(ctx context.Context, host, forwardedProto, code, state, existingToken string) (*domain.User, string, error) {
	if s.oauth == nil {
		return nil, "", ErrOAuthNotConfigured
	}

	if err := s.state.Verify(state); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrOAuthState, err)
	}

	callbackURL := utils.ComputeCallbackURL(host, forwardedProto)

	exchangeCtx, cancel := context.WithTimeout(ctx, oauthCallTimeout)
	defer cancel()
	token, err := s.oauth.Exchange(exchangeCtx, callbackURL, code)
	if err != nil {
		s.logger.Warn("OAuth token exchange failed", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}

	profileCtx, cancel := context.WithTimeout(ctx, oauthCallTimeout)
	defer cancel()
	profile, err := s.oauth.FetchProfile(profileCtx, token)
	if err != nil {
		s.logger.Warn("OAuth profile fetch failed", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	user := &domain.User{
		Email:           utils.NormalizeEmail(profile.Email),
		FirstName:       profile.GivenName,
		LastName:        profile.FamilyName,
		ProfileImageURL: profile.Picture,
		AccessToken:     token.AccessToken,
		RefreshToken:    token.RefreshToken,
	}

	if err := s.store.SetUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to upsert user: %w", err)
	}

	sessionToken, err := s.store.CreateSession(ctx, user.Email, existingToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("User logged in via google",
		zap.String("user_id", user.ID),
	)
	return user, sessionToken, nil
}

// Logout deletes the session; absent tokens are a no-op.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CurrentUser resolves a session token to its user. Any gap in the
// chain (missing token, expired session, vanished user, storage read
// failure) collapses to ErrInvalidSession: reads fail open to
// "unauthenticated", never to "authenticated".
func (s *authService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.store.ValidateSession(ctx, token)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("Session lookup failed", zap.Error(err))
		}
		return nil, ErrInvalidSession
	}

	user, err := s.store.GetUser(ctx, session.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("User lookup failed", zap.Error(err))
		}
		return nil, ErrInvalidSession
	}

	return user, nil
}
