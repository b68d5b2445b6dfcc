package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecomart/ecomart/internal/database"
	"github.com/ecomart/ecomart/internal/logging"
	"github.com/ecomart/ecomart/internal/server"
)

func main() {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("ECOMART_LOG_LEVEL"), os.Getenv("ECOMART_LOG_FORMAT"))

	port := os.Getenv("ECOMART_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("ECOMART_DB_PATH")
	if dbPath == "" {
		dbPath = "ecomart.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cfg := server.Config{
		DemoOTPCode:   os.Getenv("ECOMART_DEMO_OTP"),
		SecureCookies: os.Getenv("ECOMART_SECURE_COOKIES") == "true",
	}
	srv := server.New(db, cfg, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	srv.Start(watchCtx)

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					slog.Error("cleanup expired sessions", "error", err)
				} else if n > 0 {
					slog.Info("cleaned up expired sessions", "count", n)
				}
				if _, err := srv.OTPStore().DeleteExpired(); err != nil {
					slog.Error("cleanup expired otp codes", "error", err)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("ecomart starting", "addr", ":"+port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	srv.Stop()
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
