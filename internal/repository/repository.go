// Package repository provides the user store and its drivers.
//
// A driver is picked from the connection string scheme:
//
//	mongodb://, mongodb+srv://  MongoDB document store
//	postgres://, postgresql://  PostgreSQL through pgxpool
//	redis://, rediss://         Redis hashes indexed by a sorted set
//	memory://                   in-process store for tests and demos
package repository

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rollcall/rollcall/internal/model"
)

// Store persists user records.
// Implementations must be safe for concurrent use.
type Store interface {
	// CreateUser validates and persists u, filling in ID and timestamps.
	CreateUser(ctx context.Context, u *model.User) error
	// ListUsers returns every record, newest first. Never nil.
	ListUsers(ctx context.Context) ([]*model.User, error)
	// Ping checks store connectivity.
	Ping(ctx context.Context) error
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

// Open connects to the store named by rawURL and verifies it is reachable.
// Every failure is returned as a *ConnectionError.
func Open(ctx context.Context, rawURL string) (Store, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, &ConnectionError{Op: "open", Err: ErrNotConfigured}
	}

	scheme, err := schemeOf(rawURL)
	if err != nil {
		return nil, &ConnectionError{Op: "open", Err: err}
	}

	var store Store
	switch scheme {
	case "mongodb", "mongodb+srv":
		store, err = openMongo(ctx, rawURL)
	case "postgres", "postgresql":
		store, err = openPostgres(ctx, rawURL)
	case "redis", "rediss":
		store, err = openRedis(ctx, rawURL)
	case "memory":
		store = NewMemory()
	default:
		err = fmt.Errorf("unsupported database scheme %q", scheme)
	}
	if err != nil {
		if IsConnection(err) {
			return nil, err
		}
		return nil, &ConnectionError{Op: "open", Err: err}
	}

	return store, nil
}

// schemeOf extracts the lowercased scheme. Mongo URLs may list several
// hosts, which net/url rejects, so only the prefix is inspected.
func schemeOf(rawURL string) (string, error) {
	i := strings.Index(rawURL, "://")
	if i <= 0 {
		if _, err := url.Parse(rawURL); err != nil {
			return "", fmt.Errorf("invalid database URL: %w", err)
		}
		return "", fmt.Errorf("database URL has no scheme")
	}
	return strings.ToLower(rawURL[:i]), nil
}

// validateUser applies the required-field rules shared by all drivers.
func validateUser(u *model.User) error {
	missing := u.MissingFields()
	if len(missing) == 0 {
		return nil
	}
	fields := make([]FieldError, len(missing))
	for i, name := range missing {
		fields[i] = FieldError{Field: name, Reason: "is required"}
	}
	return &ValidationError{Fields: fields}
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newID returns a ULID for t. Within one millisecond the monotonic source
// keeps IDs increasing, so they break ties between equal timestamps.
func newID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
