// Package service provides business logic for the application.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/rollcall/rollcall/internal/events"
	"github.com/rollcall/rollcall/internal/metrics"
	"github.com/rollcall/rollcall/internal/model"
	"github.com/rollcall/rollcall/internal/repository"
)

// Acquirer hands out the shared store handle.
type Acquirer interface {
	Acquire(ctx context.Context) (repository.Store, error)
}

// UserService handles user business logic.
type UserService struct {
	conn      Acquirer
	metrics   metrics.Recorder
	publisher events.Publisher
	logger    *slog.Logger
}

// NewUserService creates a new UserService. A nil recorder or publisher
// disables that concern.
func NewUserService(conn Acquirer, recorder metrics.Recorder, publisher events.Publisher, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if publisher == nil {
		publisher = events.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		conn:      conn,
		metrics:   recorder,
		publisher: publisher,
		logger:    logger.With("component", "service.user"),
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name  string
	Email string
}

// CreateUser stores a new user. Field rules are enforced by the store.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	store, err := s.conn.Acquire(ctx)
	if err != nil {
		return nil, s.fail(metrics.OpCreate, err)
	}

	user := model.NewUser(input.Name, input.Email)

	start := time.Now()
	err = store.CreateUser(ctx, user)
	s.metrics.ObserveStoreDuration(metrics.OpCreate, time.Since(start))
	if err != nil {
		return nil, s.fail(metrics.OpCreate, err)
	}

	s.metrics.IncUserCreated()

	if err := s.publisher.PublishUserCreated(ctx, user); err != nil {
		s.metrics.IncEventPublished("failed")
		s.logger.Warn("event_publish_failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	} else {
		s.metrics.IncEventPublished("success")
	}

	return user, nil
}

// ListUsers returns every user, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	store, err := s.conn.Acquire(ctx)
	if err != nil {
		return nil, s.fail(metrics.OpList, err)
	}

	start := time.Now()
	users, err := store.ListUsers(ctx)
	s.metrics.ObserveStoreDuration(metrics.OpList, time.Since(start))
	if err != nil {
		return nil, s.fail(metrics.OpList, err)
	}

	s.metrics.IncUserListed()
	return users, nil
}

// fail counts err and returns it unchanged.
func (s *UserService) fail(op string, err error) error {
	kind := repository.Kind(err)
	s.metrics.IncStoreError(kind)
	s.logger.Debug("store_error",
		slog.String("op", op),
		slog.String("kind", kind),
	)
	return err
}
