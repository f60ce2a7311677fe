// Package main is the entrypoint for the Rollcall API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rollcall/rollcall/internal/config"
	"github.com/rollcall/rollcall/internal/connection"
	"github.com/rollcall/rollcall/internal/events"
	"github.com/rollcall/rollcall/internal/handler"
	"github.com/rollcall/rollcall/internal/metrics"
	"github.com/rollcall/rollcall/internal/redact"
	"github.com/rollcall/rollcall/internal/server"
	"github.com/rollcall/rollcall/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	recorder := metrics.NewInMemory()

	// The store is dialled on first use unless CONNECT_ON_START is set.
	conn := connection.New(cfg.DatabaseURL,
		connection.WithLogger(logger),
		connection.WithRecorder(recorder),
		connection.WithDialTimeout(cfg.DatabaseDialTimeout),
	)
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is not set; users requests will fail until it is configured")
	}
	if cfg.ConnectOnStart && cfg.DatabaseURL != "" {
		if _, err := conn.Acquire(ctx); err != nil {
			logger.Warn("initial store connection failed; retrying on first request",
				slog.String("error", redact.Error(err, cfg.DatabaseURL)),
			)
		}
	}

	var (
		publisher events.Publisher = events.NewNoop()
		natsCheck handler.HealthChecker
		natsPub   *events.NATSPublisher
	)
	if cfg.EventsEnabled() {
		nc, err := events.Connect(events.Options{
			URL:           cfg.NATSURL,
			MaxReconnects: cfg.NATSMaxReconnects,
			ReconnectWait: cfg.NATSReconnectWait,
			Logger:        logger,
		})
		if err != nil {
			logger.Error("failed to connect to NATS",
				slog.String("error", redact.Error(err, cfg.NATSURL)),
				slog.String("nats_url", redact.URL(cfg.NATSURL)),
			)
			os.Exit(1)
		}
		natsPub = events.NewNATS(nc, cfg.NATSSubject, logger)
		publisher = natsPub
		natsCheck = natsPub
		logger.Info("connected to NATS", "subject", cfg.NATSSubject)
	}

	userService := service.NewUserService(conn, recorder, publisher, logger)

	policy := handler.StatusCollapsed
	if cfg.ErrorStatusSplit {
		policy = handler.StatusSplit
	}
	secrets := []string{cfg.DatabaseURL, cfg.NATSURL}

	r := handler.NewRouter(handler.RouterConfig{
		Root:               handler.New(),
		Users:              handler.NewUserHandler(userService, logger, policy, secrets...),
		Health:             handler.NewHealthHandler(conn, natsCheck, secrets...),
		Metrics:            handler.NewMetricsHandler(recorder),
		Logger:             logger,
		IsDevelopment:      cfg.IsDevelopment(),
		CORSAllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("store", conn.Close)
	if natsPub != nil {
		srv.OnShutdown("nats", natsPub.Close)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"database_url", redact.URL(cfg.DatabaseURL),
		"events", cfg.EventsEnabled(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "rollcall")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
