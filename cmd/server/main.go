package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anish/devshowcase/internal/api"
	"github.com/anish/devshowcase/internal/config"
	"github.com/anish/devshowcase/internal/mailer"
	"github.com/anish/devshowcase/internal/repository/mongodb"
	"github.com/anish/devshowcase/internal/service"
	"github.com/anish/devshowcase/internal/storage"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize database
	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, db, err := mongodb.Connect(initCtx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("error disconnecting from mongodb", "error", err)
		}
	}()

	repos := mongodb.NewRepositories(db)

	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)

	// The client is lazy; a missing or unreachable bucket surfaces as an
	// upload error at request time, not at startup.
	var uploader storage.Uploader
	if cfg.S3Endpoint != "" {
		uploader, err = storage.NewS3Uploader(storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			BaseURL:   cfg.S3BaseURL,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			logger.Error("failed to create s3 client", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("S3_ENDPOINT not set — media uploads will fail")
	}

	services := service.NewServices(repos, cfg, mail, uploader)
	router := api.NewRouter(services, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
