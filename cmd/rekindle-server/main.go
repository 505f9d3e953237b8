package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rekindle/internal/auth"
	"rekindle/internal/config"
	"rekindle/internal/dashboard"
	"rekindle/internal/intake/intakestore"
	"rekindle/internal/logging"
	serverApp "rekindle/internal/server/app"
	serverHTTP "rekindle/internal/server/http"
	"rekindle/internal/submission"
)

// feedbackDelay mimics the acknowledgement typing pause the intake UI shows.
const feedbackDelay = 900 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
	if cfg.LogFile != "" {
		if err := logging.EnableFile(cfg.LogFile); err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
	}
	logger := logging.NewComponentLogger("Main")
	logger.Info("Starting rekindle server...")
	logger.Info("environment=%s data_dir=%s backend=%q auth_mode=%s",
		cfg.Environment, cfg.DataDir, cfg.Backend.BaseURL, cfg.Auth.Mode)

	store, err := intakestore.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open intake store: %v", err)
	}

	verifier, err := auth.FromConfig(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to configure auth: %v", err)
	}

	var contentLoader dashboard.Loader
	if cfg.Dashboard.ContentURL != "" {
		contentLoader = dashboard.NewHTTPLoader(cfg.Dashboard.ContentURL, cfg.Dashboard.ContentTimeout)
	}

	coordinator := serverApp.NewCoordinator(
		store,
		submission.NewService(store, submission.NewBackend(cfg.Backend)),
		dashboard.NewService(contentLoader),
		serverApp.NewFeedbackBroadcaster(feedbackDelay),
	)

	router := serverHTTP.NewRouter(coordinator, verifier, serverHTTP.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.AllowedOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // no timeout for the websocket streams
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server stopped")
}
