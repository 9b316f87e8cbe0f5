package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/bill"
	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/internal/extract"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/server"
	"github.com/mmynk/billsplit/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, os.Stderr)
	slog.SetDefault(log)

	log.Info("Starting bill splitter",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"log_level", cfg.LogLevel,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	sessions := bill.NewRegistry(cfg.Session.TTL)
	sessions.OnEvict = func(n int) { m.SessionsEvicted.Add(float64(n)) }
	metrics.WatchSessions(reg, sessions.Len)
	go sessions.Run(ctx, time.Minute)

	secret := cfg.Session.Secret
	if secret == "" {
		// Tokens will not survive a restart, which matches session lifetime.
		secret = uuid.NewString()
		log.Warn("SESSION_SECRET not set, using a random secret")
	}
	tokens := auth.NewTokenManager(secret)

	router := &extract.Router{}
	if cfg.ImagesEnabled() {
		reader, err := extract.NewGeminiReader(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Error("Failed to initialize image extraction", "error", err)
			os.Exit(1)
		}
		defer reader.Close()
		router.Images = extract.NewVision(reader)
		log.Info("Image extraction enabled", "model", cfg.Gemini.Model)
	} else {
		log.Warn("GEMINI_API_KEY not set, only text and HTML receipts can be scanned")
	}

	handler := server.New(server.Deps{
		Logger:         log,
		Sessions:       sessions,
		Tokens:         tokens,
		Extractor:      router,
		Metrics:        m,
		Gatherer:       reg,
		StaticPath:     cfg.Server.StaticPath,
		CORSOrigins:    cfg.Server.CORSOrigins,
		MaxUploadBytes: cfg.Scan.MaxUploadBytes,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening", "address", addr, "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("Server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
