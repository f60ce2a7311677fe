// Command subscriber prints user.created events published by the API.
//
// Usage:
//
//	NATS_URL=nats://localhost:4222 go run ./cmd/subscriber
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/nats-io/nats.go"

	"github.com/rollcall/rollcall/internal/events"
	"github.com/rollcall/rollcall/internal/redact"
)

type config struct {
	NATSURL string `env:"NATS_URL,required"`
	Subject string `env:"NATS_SUBJECT" envDefault:"users.created"`
	Queue   string `env:"NATS_QUEUE"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "rollcall-subscriber")

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	nc, err := events.Connect(events.Options{
		URL:    cfg.NATSURL,
		Name:   "rollcall-subscriber",
		Logger: logger,
	})
	if err != nil {
		logger.Error("failed to connect to NATS", "error", redact.Error(err, cfg.NATSURL))
		os.Exit(1)
	}
	defer nc.Drain()

	handle := handler(logger)
	var sub *nats.Subscription
	if cfg.Queue != "" {
		sub, err = nc.QueueSubscribe(cfg.Subject, cfg.Queue, handle)
	} else {
		sub, err = nc.Subscribe(cfg.Subject, handle)
	}
	if err != nil {
		logger.Error("failed to subscribe", "subject", cfg.Subject, "error", err)
		os.Exit(1)
	}
	logger.Info("subscribed", "subject", sub.Subject, "queue", cfg.Queue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")
}

// handler logs each decoded event and drops malformed messages.
func handler(logger *slog.Logger) nats.MsgHandler {
	return func(msg *nats.Msg) {
		evt, err := events.Decode(msg.Data)
		if err != nil {
			logger.Warn("dropping malformed event", "subject", msg.Subject, "error", err)
			return
		}
		logger.Info("event received",
			slog.String("event_id", evt.EventID),
			slog.String("event_type", evt.EventType),
			slog.String("user_id", evt.Data.ID),
			slog.String("name", evt.Data.Name),
			slog.Time("created_at", evt.Data.CreatedAt),
		)
	}
}
