// Package redis stores searchhub data in redis.
package redis

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gredis "github.com/Laisky/go-redis/v2"
	"github.com/redis/go-redis/v9"
)

// DB is a wrapper for go-redis
type DB struct {
	db *gredis.Utils
}

// NewDB creates a new DB instance
func NewDB(opt *redis.Options) *DB {
	rdb := redis.NewClient(opt)
	rutils := gredis.NewRedisUtils(rdb)

	return &DB{
		db: rutils,
	}
}

// LoadSession returns the stored session payload, or an empty string when
// the session does not exist or has expired.
func (db *DB) LoadSession(ctx context.Context, id string) (string, error) {
	payload, err := db.db.GetItem(ctx, KeyPrefixSession+id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errors.Wrapf(err, "get session %q", id)
	}

	return payload, nil
}

// SaveSession stores payload and resets its expiry to ttl.
func (db *DB) SaveSession(ctx context.Context, id, payload string, ttl time.Duration) error {
	if err := db.db.SetItem(ctx, KeyPrefixSession+id, payload, ttl); err != nil {
		return errors.Wrapf(err, "set session %q", id)
	}

	return nil
}

// DeleteSession removes the session.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	if err := db.db.Del(ctx, KeyPrefixSession+id).Err(); err != nil {
		return errors.Wrapf(err, "del session %q", id)
	}

	return nil
}
