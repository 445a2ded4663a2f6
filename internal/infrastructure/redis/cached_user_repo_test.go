package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/DHJariwala/is601-user-management/internal/domain"
	"github.com/DHJariwala/is601-user-management/internal/infrastructure/memory"
)

func newTestCache(t *testing.T) (*CachedUserRepo, *memory.UserRepo, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := New(s.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })

	inner := memory.NewUserRepo()
	return NewCachedUserRepo(inner, client, time.Minute), inner, s
}

func mkUser(id, email string) domain.User {
	now := time.Now()
	return domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		Role:         "user",
		State:        domain.StateActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCachedUserRepo_Passthrough_WhenRedisNil(t *testing.T) {
	t.Parallel()

	inner := memory.NewUserRepo()
	c := NewCachedUserRepo(inner, nil, 0)
	ctx := context.Background()

	_, err := c.Create(ctx, mkUser("u1", "a@x.com"))
	require.NoError(t, err)

	u, err := c.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
}

func TestCachedUserRepo_ReadThrough(t *testing.T) {
	t.Parallel()

	c, inner, s := newTestCache(t)
	ctx := context.Background()

	_, err := inner.Create(ctx, mkUser("u1", "a@x.com"))
	require.NoError(t, err)

	// miss fills the cache
	u, err := c.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.True(t, s.Exists("user:u1"))

	// hit is served from redis even if the inner row changes underneath
	fresh, err := inner.GetByID(ctx, "u1")
	require.NoError(t, err)
	fresh.Bio = "changed behind the cache"
	_, err = inner.Save(ctx, fresh, fresh.Version)
	require.NoError(t, err)

	cached, err := c.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "", cached.Bio)
}

func TestCachedUserRepo_SaveRefreshesCache(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCache(t)
	ctx := context.Background()

	created, err := c.Create(ctx, mkUser("u1", "a@x.com"))
	require.NoError(t, err)

	created.Bio = "updated"
	_, err = c.Save(ctx, created, created.Version)
	require.NoError(t, err)

	got, err := c.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "updated", got.Bio)
	require.Equal(t, int64(2), got.Version)
}

func TestCachedUserRepo_DeletedNotServedFromCache(t *testing.T) {
	t.Parallel()

	c, _, _ := newTestCache(t)
	ctx := context.Background()

	created, err := c.Create(ctx, mkUser("u1", "a@x.com"))
	require.NoError(t, err)

	now := time.Now()
	created.State = domain.StateDeleted
	created.DeletedAt = &now
	_, err = c.Save(ctx, created, created.Version)
	require.NoError(t, err)

	_, err = c.GetByID(ctx, "u1")
	require.True(t, domain.Is(err, "user_not_found"), "got %v", err)
}

func TestCachedUserRepo_CorruptEntry_FallsBack(t *testing.T) {
	t.Parallel()

	c, inner, s := newTestCache(t)
	ctx := context.Background()

	_, err := inner.Create(ctx, mkUser("u1", "a@x.com"))
	require.NoError(t, err)
	require.NoError(t, s.Set("user:u1", "{not json"))

	u, err := c.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
}

func TestCachedUserRepo_RedisDown_FallsBack(t *testing.T) {
	t.Parallel()

	c, inner, s := newTestCache(t)
	ctx := context.Background()

	_, err := inner.Create(ctx, mkUser("u1", "a@x.com"))
	require.NoError(t, err)

	s.Close()

	u, err := c.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
}
