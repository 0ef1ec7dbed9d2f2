// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"claims-portal/internal/common/config"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// Redis is the connection shared by the flash store and the readiness probe.
type Redis struct {
	client *redis.Client
	addr   string
}

// NewRedis configures a client without dialing.
func NewRedis(cfg config.RedisConfig) *Redis {
	return &Redis{
		addr: cfg.Address,
		client: redis.NewClient(&redis.Options{
			Addr:         cfg.Address,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  connectTimeout,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		}),
	}
}

// OpenRedis configures a client and fails unless the server answers a PING.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	r := NewRedis(cfg)
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := r.Ping(ctx); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s: %w", r.addr, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Client() *redis.Client {
	return r.client
}
