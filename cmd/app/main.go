package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/config"
	"github.com/siddik-official/evolution-gadget/internal/db"
	"github.com/siddik-official/evolution-gadget/internal/middleware"
	"github.com/siddik-official/evolution-gadget/internal/repository"
	"github.com/siddik-official/evolution-gadget/internal/services"
)

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "evolution-gadget").Logger()
	if cfg.Log.Pretty {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}

func main() {
	// ======================
	// CONFIG + LOGGING
	// ======================
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := newLogger(cfg)

	// ======================
	// INFRA
	// ======================
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	tokens, err := middleware.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.TTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	gadgetRepo := repository.NewGadgetRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(userRepo)
	userSvc := services.NewUserService(userRepo)
	gadgetSvc := services.NewGadgetService(gadgetRepo)
	reviewSvc := services.NewReviewService(reviewRepo, gadgetRepo)
	cartSvc := services.NewCartService(cartRepo, gadgetRepo)
	orderSvc := services.NewOrderService(orderRepo, cartRepo)

	auth := middleware.NewAuthenticator(tokens, userRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Timeout(cfg.RequestTimeout))

	general := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
	e.Use(general.Middleware)

	metrics := middleware.NewMetrics()
	e.Use(metrics.Middleware)
	e.GET("/metrics", metrics.Handler())

	registerHealthRoutes(e, pool, cfg.Env)

	api := e.Group("/api")

	// register/login share a tighter per-IP budget
	authLimiter := middleware.NewRateLimiter(rate.Limit(float64(cfg.RateLimit.AuthPerMinute)/60.0), cfg.RateLimit.AuthPerMinute)

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc, userSvc, tokens, auth, authLimiter.Middleware)
	registerGadgetRoutes(api, gadgetSvc, auth)
	registerReviewRoutes(api, reviewSvc, auth)
	registerCartRoutes(api, cartSvc, auth)
	registerOrderRoutes(api, orderSvc, auth)

	// ======================
	// SERVER
	// ======================
	go func() {
		logger.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(cfg.Addr()); err != nil {
			logger.Info().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server shut down")
}
