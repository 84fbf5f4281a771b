// Package server exposes the tax engine and the cockpit over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rgehrsitz/opsdash/internal/breakeven"
	"github.com/rgehrsitz/opsdash/internal/calculation"
	"github.com/rgehrsitz/opsdash/internal/cockpit"
	"github.com/rgehrsitz/opsdash/internal/domain"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ProfileStore persists per-user profiles
type ProfileStore interface {
	SaveProfile(ctx context.Context, userID string, profile domain.PersonalYearProfile) error
	GetProfile(ctx context.Context, userID string, year int) (*domain.PersonalYearProfile, error)
}

// Options configures the router
type Options struct {
	CORSOrigins  []string
	RateLimit    string // limiter format, e.g. "120-M"; empty disables limiting
	IsProduction bool
}

// Server holds the dependencies of the HTTP handlers. Cockpit and Profiles
// may be nil, which disables the per-user routes.
type Server struct {
	Engine   *calculation.CalculationEngine
	Solver   *breakeven.Solver
	Cockpit  *cockpit.Service
	Profiles ProfileStore
	Logger   *slog.Logger
}

// NewRouter builds the Gin engine with middleware and routes
func NewRouter(s *Server, opts Options) (*gin.Engine, error) {
	if s.Engine == nil {
		return nil, errors.New("server: calculation engine is required")
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.Solver == nil {
		s.Solver = breakeven.NewDefaultSolver(s.Engine)
	}
	if err := RegisterValidations(); err != nil {
		return nil, err
	}

	if opts.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(StructuredLogging(s.Logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("setting trusted proxies: %w", err)
	}

	corsConfig, err := newCORSConfig(opts.CORSOrigins)
	if err != nil {
		return nil, err
	}
	r.Use(cors.New(corsConfig))

	if opts.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(opts.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("parsing rate limit %q: %w", opts.RateLimit, err)
		}
		r.Use(RateLimit(limiter.New(memory.NewStore(), rate)))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	tax := v1.Group("/tax")
	{
		tax.GET("/parameters/:year", s.getParameters)
		tax.POST("/compute", s.compute)
		tax.POST("/project", s.project)
		tax.POST("/required-profit", s.requiredProfit)
	}

	users := v1.Group("/users/:userID")
	if s.Cockpit != nil {
		users.GET("/cockpit/:year", s.getCockpit)
		users.POST("/project", s.projectForUser)
	}
	if s.Profiles != nil {
		users.GET("/profiles/:year", s.getProfile)
		users.PUT("/profiles/:year", s.putProfile)
	}

	return r, nil
}

func newCORSConfig(origins []string) (cors.Config, error) {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	cfg.MaxAge = 12 * time.Hour

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg, nil
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg, nil
	}
	cfg.AllowOrigins = origins
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid CORS origins: %w", err)
	}
	return cfg, nil
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
