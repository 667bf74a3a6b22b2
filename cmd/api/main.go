package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopcore/internal/auth"
	"shopcore/internal/config"
	"shopcore/internal/database"
	"shopcore/internal/handler"
	"shopcore/internal/promo"
	"shopcore/internal/repository"
	"shopcore/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting shopcore API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize the document store backing reviews
	mongoDB, err := database.NewMongoDatabase(ctx, cfg.Mongo, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize mongo: %w", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer disconnectCancel()
		if err := mongoDB.Client().Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect mongo client")
		}
	}()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, cfg.Cart.MaxPerLine, logger)
	reviewRepo := repository.NewReviewRepository(mongoDB, logger)

	// Initialize voucher loader with S3 and local fallback
	fileLoader := promo.NewFileLoader(logger)
	var voucherLoader promo.Loader

	if cfg.Promo.S3Enabled {
		s3Loader, err := promo.NewS3Loader(ctx, cfg.Promo.Bucket, cfg.Promo.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			voucherLoader = fileLoader
		} else {
			voucherLoader = s3Loader
		}
	} else {
		voucherLoader = fileLoader
		logger.Info().Msg("using local file system for voucher files (S3 disabled)")
	}

	// Initialize promo validator. The API still runs without voucher data;
	// promo codes are simply rejected until lists are provisioned.
	validatorConfig := &promo.ValidatorConfig{}
	for _, file := range cfg.Promo.Files {
		validatorConfig.Lists = append(validatorConfig.Lists, promo.ListConfig{Path: file, Pct: 10})
	}
	validator, err := promo.NewValidator(ctx, validatorConfig, voucherLoader, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("promo validator unavailable, promo codes disabled")
		validator = nil
	} else {
		defer validator.Close()
	}

	// Initialize authentication
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, 24*time.Hour)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productRepo, logger)
	reviewHandler := handler.NewReviewHandler(reviewRepo, logger)
	cartHandler := handler.NewCartHandler(cartRepo, logger)
	checkoutHandler := handler.NewCheckoutHandler(cartRepo, validator, flatRateShipping, logger)

	// Initialize router
	mux := router.New(productHandler, reviewHandler, cartHandler, checkoutHandler, issuer, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// flatRateShipping charges a flat rate below the free-shipping threshold.
func flatRateShipping(subtotal int64) int64 {
	if subtotal >= 5000 {
		return 0
	}
	return 499
}
