// Package global builds the shared services from settings.
package global

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/redis/go-redis/v9"

	"github.com/Laisky/searchhub/internal/session"
	"github.com/Laisky/searchhub/library/config"
	rlibs "github.com/Laisky/searchhub/library/db/redis"
	"github.com/Laisky/searchhub/library/log"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"

	defaultSessionTTLMinutes = 60
)

// SessionTTL is how long an idle session survives.
func SessionTTL() time.Duration {
	return time.Duration(config.IntOr("settings.session.ttl_minutes", defaultSessionTTLMinutes)) * time.Minute
}

// setupSessionStore picks the session backend configured at settings.session.backend.
// The memory store is swept in the background until ctx is done.
func setupSessionStore(ctx context.Context) (session.Store, error) {
	ttl := SessionTTL()
	backend := strings.ToLower(config.StringOr("settings.session.backend", SessionBackendMemory))

	switch backend {
	case SessionBackendMemory:
		store := session.NewMemoryStore(ttl)
		go store.RunSweeper(ctx, time.Minute)
		log.Logger.Info("use in-memory session store", zap.Duration("ttl", ttl))
		return store, nil
	case SessionBackendRedis:
		store, err := session.NewRedisStore(rlibs.NewDB(&redis.Options{
			Addr:     config.StringOr("settings.db.redis.addr", "localhost:6379"),
			Password: gconfig.Shared.GetString("settings.db.redis.password"),
			DB:       config.IntOr("settings.db.redis.db", 0),
		}), ttl)
		if err != nil {
			return nil, errors.Wrap(err, "new redis session store")
		}
		log.Logger.Info("use redis session store",
			zap.String("addr", config.StringOr("settings.db.redis.addr", "localhost:6379")),
			zap.Duration("ttl", ttl))
		return store, nil
	default:
		return nil, errors.Errorf("unknown session backend %q", backend)
	}
}
