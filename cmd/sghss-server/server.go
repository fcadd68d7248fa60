package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/daniel-lgs/sistema-VidaPlus/internal/config"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/domain/account"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/domain/auditlog"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/domain/profile"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/domain/scheduling"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/auth"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/db"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/middleware"
	"github.com/daniel-lgs/sistema-VidaPlus/internal/platform/telemetry"
)

const version = "0.1.0"

type services struct {
	issuer       *auth.TokenIssuer
	audit        *auditlog.Service
	accounts     *account.Service
	profiles     *profile.Service
	appointments *scheduling.Service
}

func newServices(pool *pgxpool.Pool, cfg *config.Config, logger zerolog.Logger) *services {
	tx := db.NewTxManager(pool)
	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	auditSvc := auditlog.NewService(auditlog.NewRepoPG(pool))
	accountSvc := account.NewService(account.NewRepoPG(pool), account.NewSessionRepoPG(pool), tx, auditSvc, issuer)
	profileSvc := profile.NewService(
		profile.NewPatientRepoPG(pool),
		profile.NewAdminRepoPG(pool),
		profile.NewProfessionalRepoPG(pool),
		accountSvc, tx, auditSvc,
	)
	schedSvc := scheduling.NewService(
		scheduling.NewAppointmentRepoPG(pool),
		profileSvc, tx, auditSvc,
		scheduling.NewLinkGenerator(cfg.MeetingHost),
		logger.With().Str("component", "scheduling").Logger(),
	)

	return &services{
		issuer:       issuer,
		audit:        auditSvc,
		accounts:     accountSvc,
		profiles:     profileSvc,
		appointments: schedSvc,
	}
}

func newEcho(cfg *config.Config, logger zerolog.Logger, tel *telemetry.Provider, svcs *services) *echo.Echo {
	svcs.accounts.SetLoginObserver(tel)
	svcs.appointments.SetObserver(tel)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.Logger(logger))
	e.Use(tel.MetricsMiddleware())
	e.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsProduction())))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/metrics", tel.PrometheusHandler())

	general := middleware.DefaultRateLimitConfig()
	general.RequestsPerSecond, general.BurstSize = cfg.RateLimitRPS, cfg.RateLimitBurst
	login := middleware.DefaultLoginRateLimitConfig()
	login.RequestsPerSecond, login.BurstSize = cfg.LoginRateLimitRPS, cfg.LoginRateLimitBurst

	apiV1 := e.Group("/api/v1",
		middleware.RateLimit(general),
		auth.SessionMiddleware(svcs.issuer, svcs.accounts),
	)
	loginGuard := middleware.RateLimit(login)

	account.NewHandler(svcs.accounts).RegisterRoutes(apiV1, loginGuard)
	profile.NewHandler(svcs.profiles).RegisterRoutes(apiV1, loginGuard)
	scheduling.NewHandler(svcs.appointments).RegisterRoutes(apiV1)
	auditlog.NewHandler(svcs.audit).RegisterRoutes(apiV1)

	return e
}

func runServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.UsingDevSecret() {
		logger.Warn().Msg("JWT_SECRET not set; signing tokens with the development key")
	}

	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tel := telemetry.NewProvider(reg)
	tel.RegisterPool(reg, func() *db.PoolStats { return db.GetPoolStats(pool) })

	e := newEcho(cfg, logger, tel, newServices(pool, cfg, logger))
	e.GET("/health/db", db.HealthHandler(pool))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
