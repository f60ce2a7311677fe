package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rollcall/rollcall/internal/model"
)

// Redis key layout.
const (
	userKeyPrefix  = "user:"
	usersByCreated = "users:by_created"
)

// Redis stores each user as a hash and orders them with a sorted set
// scored by creation time in microseconds.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

func openRedis(ctx context.Context, redisURL string) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Redis{client: client, now: time.Now}, nil
}

// CreateUser implements Store. The hash and the index entry are written
// in one MULTI/EXEC transaction.
func (r *Redis) CreateUser(ctx context.Context, u *model.User) error {
	if err := validateUser(u); err != nil {
		return err
	}

	u.Stamp(r.now().Truncate(time.Microsecond))
	u.ID = newID(u.CreatedAt)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, userKeyPrefix+u.ID, map[string]any{
			"name":       u.Name,
			"email":      u.Email,
			"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		})
		pipe.ZAdd(ctx, usersByCreated, redis.Z{
			Score:  float64(u.CreatedAt.UnixMicro()),
			Member: u.ID,
		})
		return nil
	})
	if err != nil {
		return classifyRedis("create user", err)
	}
	return nil
}

// ListUsers implements Store. Equal scores come back in reverse
// lexicographic member order, which is ID descending.
func (r *Redis) ListUsers(ctx context.Context) ([]*model.User, error) {
	ids, err := r.client.ZRevRange(ctx, usersByCreated, 0, -1).Result()
	if err != nil {
		return nil, classifyRedis("list users", err)
	}

	users := make([]*model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, userKeyPrefix+id)
		}
		return nil
	})
	if err != nil {
		return nil, classifyRedis("list users", err)
	}

	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
		if err != nil {
			return nil, &PersistenceError{Op: "decode user", Err: fmt.Errorf("user %s: %w", ids[i], err)}
		}
		u := &model.User{ID: ids[i], Name: fields["name"], Email: fields["email"]}
		u.Stamp(createdAt)
		users = append(users, u)
	}

	return users, nil
}

// Ping implements Store.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close implements Store.
func (r *Redis) Close(context.Context) error {
	return r.client.Close()
}

func classifyRedis(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, redis.ErrClosed) {
		return &ConnectionError{Op: op, Err: err}
	}
	return &PersistenceError{Op: op, Err: err}
}
