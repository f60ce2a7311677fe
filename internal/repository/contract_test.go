package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/rollcall/rollcall/internal/model"
	"github.com/rollcall/rollcall/internal/testutil"
)

// runStoreContract exercises the behaviour every driver must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("empty list", func(t *testing.T) {
		s := newStore(t)

		users, err := s.ListUsers(context.Background())
		require.NoError(t, err)
		require.NotNil(t, users)
		assert.Empty(t, users)
	})

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		s := newStore(t)
		before := time.Now().Add(-time.Second)

		u := model.NewUser("Ada", "ada@example.com")
		require.NoError(t, s.CreateUser(context.Background(), u))

		assert.NotEmpty(t, u.ID)
		assert.True(t, u.CreatedAt.After(before), "CreatedAt %s should be after %s", u.CreatedAt, before)
		assert.Equal(t, u.CreatedAt, u.UpdatedAt)

		users, err := s.ListUsers(context.Background())
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, u.ID, users[0].ID)
		assert.Equal(t, "Ada", users[0].Name)
		assert.Equal(t, "ada@example.com", users[0].Email)
		assert.True(t, u.CreatedAt.Equal(users[0].CreatedAt))
	})

	t.Run("missing email is rejected", func(t *testing.T) {
		s := newStore(t)

		err := s.CreateUser(context.Background(), model.NewUser("Ada", ""))
		require.Error(t, err)
		assert.True(t, IsValidation(err), "expected validation error, got %v", err)

		users, err := s.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("newest first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, name := range []string{"A", "B", "C"} {
			require.NoError(t, s.CreateUser(ctx, testutil.NewTestUser(t, name)))
			// Keep creation times distinct at millisecond precision.
			time.Sleep(2 * time.Millisecond)
		}

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, []string{"C", "B", "A"}, names(users))
	})

	t.Run("duplicate emails are accepted", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.CreateUser(ctx, model.NewUser("Ada", "same@example.com")))
		require.NoError(t, s.CreateUser(ctx, model.NewUser("Grace", "same@example.com")))

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("concurrent creates", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		const n = 25

		var g errgroup.Group
		for i := 0; i < n; i++ {
			g.Go(func() error {
				return s.CreateUser(ctx, testutil.NewTestUser(t, fmt.Sprintf("user-%d", i)))
			})
		}
		require.NoError(t, g.Wait())

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, n)

		seen := make(map[string]bool, n)
		for _, u := range users {
			assert.False(t, seen[u.ID], "duplicate id %s", u.ID)
			seen[u.ID] = true
		}
		for i := 1; i < len(users); i++ {
			assert.False(t, users[i].Newer(users[i-1]), "users out of order at %d", i)
		}
	})
}

func names(users []*model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}
