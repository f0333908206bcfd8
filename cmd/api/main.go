package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"perde-store/internal/config"
	"perde-store/internal/database"
	"perde-store/internal/handler"
	"perde-store/internal/mail"
	"perde-store/internal/payment"
	"perde-store/internal/repository"
	"perde-store/internal/router"
	"perde-store/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting perde-store API server")

	if cfg.Gateway.APIKey == "" || cfg.Gateway.SecretKey == "" {
		// Not fatal: charges will fail with a configuration error until
		// credentials are deployed, but the catalogue keeps serving.
		logger.Warn().Msg("payment gateway credentials are not configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	accountRepo := repository.NewAccountRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)

	// External collaborators
	gateway := payment.NewClient(cfg.Gateway, logger)
	mailer := mail.NewSMTPMailer(cfg.Mail, logger)
	notifier := mail.NewNotifier(mailer, cfg.Mail.Operator, logger)

	// Services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	paymentService := service.NewPaymentService(gateway, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, accountRepo, cartRepo, gateway, notifier, logger)

	// HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)

	mux := router.New(orderHandler, paymentHandler, productHandler, cartHandler, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
