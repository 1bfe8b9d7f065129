package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/platformbuilds/mirador-console/internal/api/handlers"
	"github.com/platformbuilds/mirador-console/internal/api/middleware"
	"github.com/platformbuilds/mirador-console/internal/config"
	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/internal/metrics"
	"github.com/platformbuilds/mirador-console/internal/repo"
	"github.com/platformbuilds/mirador-console/internal/services"
	"github.com/platformbuilds/mirador-console/internal/timeparse"
	"github.com/platformbuilds/mirador-console/internal/widgets"
	"github.com/platformbuilds/mirador-console/internal/widgets/honeycomb"
	"github.com/platformbuilds/mirador-console/pkg/cache"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// pageTTL is how long the last viewed list page is remembered.
const pageTTL = 24 * time.Hour

type Server struct {
	mu     sync.RWMutex
	config *config.Config
	loc    *time.Location
	clock  timeparse.Clock

	logger      logger.Logger
	store       cache.Cache
	bundle      *i18n.Bundle
	registry    *widgets.Registry
	rateLimiter *middleware.RateLimiter

	users  repo.UserRepo
	tokens repo.TokenRepo
	corrs  repo.CorrelationRepo
	hosts  repo.HostRepo
	pager  repo.PagerRepo

	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(cfg *config.Config, log logger.Logger, store cache.Cache, bundle *i18n.Bundle) (*Server, error) {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	registry := widgets.NewRegistry()
	honeycomb.Register(registry)

	s := &Server{
		config:      cfg,
		loc:         loc,
		clock:       timeparse.SystemClock{},
		logger:      log,
		store:       store,
		bundle:      bundle,
		registry:    registry,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimit),
		users:       repo.NewUserRepo(store),
		tokens:      repo.NewTokenRepo(store),
		corrs:       repo.NewCorrelationRepo(store),
		hosts:       repo.NewHostRepo(store),
		pager:       repo.NewPagerRepo(store, pageTTL),
		router:      gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.CORSMiddleware(s.config.CORS))
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(middleware.MetricsMiddleware())
	s.router.Use(middleware.ErrorHandler(s.logger))

	metrics.Register(s.router)
}

// authChain authenticates the request and negotiates its language.
func (s *Server) authChain() []gin.HandlerFunc {
	auth := middleware.NoAuthMiddleware(s.config.Auth.DefaultUser)
	if s.config.Auth.Enabled {
		auth = middleware.AuthMiddleware(s.config.Auth, s.users, s.logger)
	} else {
		s.logger.Warn("Authentication is DISABLED by configuration; requests run as the default user",
			"user_id", s.config.Auth.DefaultUser.UserID)
	}
	return []gin.HandlerFunc{auth, middleware.Language(s.bundle)}
}

func (s *Server) setupRoutes() {
	health := handlers.NewHealthHandler(s.store, s.bundle, s.logger)
	s.router.GET("/health", health.HealthCheck)
	s.router.GET("/ready", health.ReadinessCheck)

	s.router.GET("/api/openapi.yaml", handlers.GetOpenAPIYAML)
	s.router.GET("/api/openapi.json", handlers.GetOpenAPISpec)
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/api/openapi.yaml")))

	tokens := handlers.NewTokenHandler(services.NewTokenService(s.tokens, s.users, s.logger), s.pager, s.bundle, s.parser, s.logger)
	popups := handlers.NewPopupHandler(s.hosts, s.bundle, s.logger)
	corrs := handlers.NewCorrelationHandler(services.NewCorrelationService(s.corrs, s.logger), s.bundle, s.logger)
	widgetChecks := handlers.NewWidgetHandler(s.registry, s.bundle, s.parser, s.isTemplateDashboard, s.logger)
	legacy := handlers.NewLegacyHandler(s.pager, s.logger)

	chain := s.authChain()
	limited := s.rateLimiter.Handler()

	v1 := s.router.Group("/api/v1", chain...)
	v1.GET("/health", health.HealthCheck)
	v1.GET("/popup/host.edit", popups.HostEdit)
	v1.GET("/correlation.list/actions", corrs.Actions)
	v1.POST("/token.update", limited, tokens.Update)
	v1.POST("/correlation.delete", limited, corrs.Delete)
	v1.POST("/correlation.enable", limited, corrs.Enable)
	v1.POST("/correlation.disable", limited, corrs.Disable)
	v1.POST("/dashboard/widget/check", widgetChecks.Check)
	v1.POST("/dashboard/widget/time-period/check", widgetChecks.CheckTimePeriod)

	lg := s.router.Group("/legacy", append(chain, middleware.LegacyAction(s.bundle, s.logger))...)
	lg.GET("/:action", legacy.Handle)
	lg.POST("/:action", limited, legacy.Handle)
}

// parser returns a time parser in the configured time zone.
func (s *Server) parser() timeparse.Parser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return timeparse.New(s.loc, s.clock)
}

func (s *Server) isTemplateDashboard(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.IsTemplateDashboard(id)
}

// ApplyConfig takes over the settings that can change at runtime: rate
// limits, time zone and template dashboards. Listener, auth and store
// settings need a restart.
func (s *Server) ApplyConfig(cfg *config.Config) {
	loc, err := cfg.Location()
	if err != nil {
		s.logger.Error("Ignoring invalid timezone", "timezone", cfg.Timezone, "error", err)
		loc = nil
	}

	s.mu.Lock()
	prevPort := s.config.Port
	s.config = cfg
	if loc != nil {
		s.loc = loc
	}
	s.mu.Unlock()

	s.rateLimiter.Update(cfg.RateLimit)
	if cfg.Port != prevPort {
		s.logger.Warn("Port change requires a restart", "port", prevPort, "configured", cfg.Port)
	}
	s.logger.Info("Runtime configuration applied", "timezone", cfg.Timezone, "rate_limit_rps", cfg.RateLimit.RPS)
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("MIRADOR-CONSOLE server starting", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down MIRADOR-CONSOLE gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler returns the underlying Gin engine so tests (or embedders) can mount it.
func (s *Server) Handler() http.Handler {
	return s.router
}
