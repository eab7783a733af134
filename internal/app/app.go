package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/rhythmicsouls/auth-gateway/internal/config"
	"github.com/rhythmicsouls/auth-gateway/internal/handler"
	"github.com/rhythmicsouls/auth-gateway/internal/service"
	"github.com/rhythmicsouls/auth-gateway/internal/store"
	"github.com/rhythmicsouls/auth-gateway/internal/utils"
	"github.com/rhythmicsouls/auth-gateway/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	store  store.Store
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	sessionTTL := cfg.Session.TTL.Duration

	var sessionStore store.Store
	if pg := infra.Postgres(); pg != nil {
		sessionStore = store.NewPostgresStore(pg, sessionTTL, infra.Logger())
	} else {
		sessionStore = store.NewMemoryStore(sessionTTL)
	}

	var oauthProvider service.OAuthProvider
	if cfg.Google.Enabled() {
		oauthProvider = service.NewGoogleProvider(service.GoogleProviderConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
		})
	} else {
		infra.Logger().Info("Google OAuth credentials not set, Google login disabled")
	}

	var rateLimiter *service.RateLimiter
	if rdb := infra.Redis(); rdb != nil {
		rateLimiter = service.NewRateLimiter(rdb)
	}

	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		sessionStore,
		oauthProvider,
		utils.NewStateSigner(cfg.Session.StateSecret),
		cfg.Security.BCryptCost,
		infra.Logger(),
	)

	authHandler := handler.NewAuthHandler(authService, sessionTTL, infra.Logger())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("auth-gateway"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, authService, rateLimiter, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		store:  sessionStore,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register",
			handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
			authHandler.Register,
		)
		auth.POST("/login",
			handler.RateLimitMiddleware(rateLimiter, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow.Duration, handler.IPBasedKey),
			authHandler.Login,
		)
		auth.GET("/google", authHandler.Google)
		auth.GET("/user", handler.RequireSession(authService), authHandler.GetMe)
		// Logout answers both verbs so plain links work too.
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/logout", authHandler.Logout)
	}
}

// runCleanup periodically sweeps expired sessions. Expired rows are
// also dropped lazily on read, so the sweep only bounds table growth.
func (a *App) runCleanup(ctx context.Context) {
	interval := a.config.Session.CleanupInterval.Duration
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := a.store.DeleteExpiredSessions(ctx)
			if err != nil {
				a.infra.Logger().Warn("session cleanup failed", zap.Error(err))
				continue
			}
			if deleted > 0 {
				a.infra.Logger().Info("expired sessions removed", zap.Int64("count", deleted))
			}
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go a.runCleanup(ctx)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
