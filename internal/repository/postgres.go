package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rollcall/rollcall/internal/model"
)

// usersSchema bootstraps the users table. It is idempotent and is not a
// migration system: the table shape never changes.
var usersSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at DESC, id DESC)`,
}

// Postgres stores users in a PostgreSQL table.
type Postgres struct {
	pool *pgxpool.Pool
}

func openPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range usersSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to bootstrap users table: %w", err)
		}
	}

	return &Postgres{pool: pool}, nil
}

// CreateUser implements Store. created_at is assigned by the database.
func (p *Postgres) CreateUser(ctx context.Context, u *model.User) error {
	if err := validateUser(u); err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, name, email)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	id := newID(time.Now())
	var createdAt time.Time
	if err := p.pool.QueryRow(ctx, query, id, u.Name, u.Email).Scan(&createdAt); err != nil {
		return classifyPostgres("create user", err)
	}

	u.ID = id
	u.Stamp(createdAt)
	return nil
}

// ListUsers implements Store.
func (p *Postgres) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT id, name, email, created_at
		FROM users
		ORDER BY created_at DESC, id DESC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, classifyPostgres("list users", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var (
			u         model.User
			createdAt time.Time
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &createdAt); err != nil {
			return nil, &PersistenceError{Op: "scan user", Err: err}
		}
		u.Stamp(createdAt)
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPostgres("list users", err)
	}

	return users, nil
}

// Ping implements Store.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close implements Store.
func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}

func classifyPostgres(op string, err error) error {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return &ConnectionError{Op: op, Err: err}
	}
	return &PersistenceError{Op: op, Err: err}
}
