// Package redis caches driver availability in front of the database.
package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	pkgerrors "github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "driver:status:"

	active   = "1"
	inactive = "0"
)

var (
	_ ports.DriverDirectory   = (*CachedDriverDirectory)(nil)
	_ ports.DriverStatusCache = (*CachedDriverDirectory)(nil)
)

// Store is the subset of *goredis.Client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

type Config struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

// NewClient opens a client; an empty address means caching is disabled.
func NewClient(cfg Config) *goredis.Client {
	if cfg.Addr == "" {
		return nil
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// CachedDriverDirectory serves driver status from Redis and falls through to next on a
// miss. A Redis outage degrades to reading next directly.
type CachedDriverDirectory struct {
	store  Store
	next   ports.DriverDirectory
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedDriverDirectory(store Store, next ports.DriverDirectory, ttl time.Duration, logger *slog.Logger) *CachedDriverDirectory {
	return &CachedDriverDirectory{
		store:  store,
		next:   next,
		ttl:    ttl,
		logger: logger.With("component", "driver-directory-cache"),
	}
}

func (c *CachedDriverDirectory) IsActive(ctx context.Context, driverID kernel.UUID) (bool, error) {
	key := keyPrefix + driverID.String()

	cached, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		return cached == active, nil
	case !errors.Is(err, goredis.Nil):
		c.logger.WarnContext(ctx, "cache read failed", "driver_id", driverID.String(), "error", err)
	}

	isActive, err := c.next.IsActive(ctx, driverID)
	if err != nil {
		return false, err
	}

	value := inactive
	if isActive {
		value = active
	}
	if err = c.store.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "driver_id", driverID.String(), "error", err)
	}
	return isActive, nil
}

// Forget drops the cached status so the next read sees the new one.
func (c *CachedDriverDirectory) Forget(ctx context.Context, driverID kernel.UUID) error {
	if err := c.store.Del(ctx, keyPrefix+driverID.String()).Err(); err != nil {
		return pkgerrors.Wrapf(err, "forget status of driver %s", driverID)
	}
	return nil
}

// NoCache is the DriverStatusCache used when Redis is not configured.
type NoCache struct{}

func (NoCache) Forget(context.Context, kernel.UUID) error { return nil }
