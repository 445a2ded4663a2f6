package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/DHJariwala/is601-user-management/internal/application/profile"
	"github.com/DHJariwala/is601-user-management/internal/domain"
)

// CachedUserRepo decorates a profile.UserRepo with a Redis read-through cache
// keyed by account id.
// - Read path: Redis -> DB fallback -> Redis set
// - Write path: DB -> Redis set (best effort)
// Email lookups and listings always hit the database; only the hot
// GetByID path is cached.
type CachedUserRepo struct {
	inner   profile.UserRepo
	rdb     *goredis.Client
	ttl     time.Duration
	keyPref string
}

func NewCachedUserRepo(inner profile.UserRepo, client *Client, ttl time.Duration) *CachedUserRepo {
	var rdb *goredis.Client
	if client != nil {
		rdb = client.rdb
	}
	return &CachedUserRepo{
		inner:   inner,
		rdb:     rdb,
		ttl:     ttl,
		keyPref: "user:",
	}
}

func (c *CachedUserRepo) key(id string) string {
	return c.keyPref + id
}

func (c *CachedUserRepo) cacheSet(ctx context.Context, u domain.User) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(u)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, c.key(u.ID), b, c.ttl).Err()
}

func (c *CachedUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	if c.rdb != nil {
		s, err := c.rdb.Get(ctx, c.key(id)).Result()
		if err == nil {
			var u domain.User
			// Unmarshal or stale-deleted failures fall back to the DB.
			if uerr := json.Unmarshal([]byte(s), &u); uerr == nil && !u.IsDeleted() {
				return u, nil
			}
		} else if err != goredis.Nil {
			// redis error -> fall back to DB (do NOT fail the read)
		}
	}

	u, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	c.cacheSet(ctx, u)
	return u, nil
}

func (c *CachedUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	created, err := c.inner.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	c.cacheSet(ctx, created)
	return created, nil
}

func (c *CachedUserRepo) Save(ctx context.Context, u domain.User, expectedVersion int64) (domain.User, error) {
	saved, err := c.inner.Save(ctx, u, expectedVersion)
	if err != nil {
		return domain.User{}, err
	}
	// SET beats DEL: the fresh record replaces the stale one even when a
	// concurrent reader just refilled the key.
	c.cacheSet(ctx, saved)
	return saved, nil
}

/*
Below: delegate the remaining profile.UserRepo methods to inner.
*/

func (c *CachedUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return c.inner.GetByEmail(ctx, email)
}

func (c *CachedUserRepo) GetByIDIncludingDeleted(ctx context.Context, id string) (domain.User, error) {
	return c.inner.GetByIDIncludingDeleted(ctx, id)
}

func (c *CachedUserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	return c.inner.List(ctx, offset, limit)
}
