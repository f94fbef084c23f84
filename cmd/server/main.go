package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"expensetracker/docs"
	"expensetracker/internal/auth"
	"expensetracker/internal/cache"
	"expensetracker/internal/config"
	"expensetracker/internal/db"
	"expensetracker/internal/handler"
	"expensetracker/internal/logger"
	"expensetracker/internal/repository"
	"expensetracker/internal/router"
	"expensetracker/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Expense Tracker API
// @version 1.0
// @description Personal expense bookkeeping with HTTP Basic authentication.
// @BasePath /
// @schemes http
// @securityDefinitions.basic BasicAuth
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogPretty)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped gracefully")
}

func run(cfg *config.Config, log zerolog.Logger) error {
	gormDB, err := db.Open(db.Options{
		Driver:         cfg.DBDriver,
		DSN:            cfg.DBDSN,
		MaxOpenConns:   cfg.DBMaxOpenConns,
		MaxIdleConns:   cfg.DBMaxIdleConns,
		ConnectTimeout: cfg.DBConnectTimeout,
		IdleTimeout:    cfg.DBIdleTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close(gormDB)
	log.Info().Str("driver", cfg.DBDriver).Msg("connected to database")

	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if cacheClient.Enabled() {
		log.Info().Str("addr", cfg.RedisAddr).Msg("expense list cache enabled")
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(gormDB, cfg.DBAcquireTimeout)
	expenseRepo := repository.NewExpenseRepository(gormDB, cfg.DBAcquireTimeout)

	// Initialize auth components
	hasher := auth.NewBcryptHasher(auth.DefaultCost)
	authenticator := auth.NewAuthenticator(accountRepo, hasher)

	// Initialize services
	accountService := service.NewAccountService(accountRepo, hasher)
	expenseService := service.NewExpenseService(expenseRepo, cacheClient, cfg.CacheTTL)

	ready := new(atomic.Bool)

	e := echo.New()
	router.Register(
		e,
		cfg,
		log,
		authenticator,
		handler.NewExpenseHandler(expenseService),
		handler.NewAccountHandler(accountService),
		handler.NewMetaHandler(docs.SwaggerInfo.InstanceName(), ready),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Msg("server listening")
		ready.Store(true)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		ready.Store(false)
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
