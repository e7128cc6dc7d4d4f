package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisOptions selects the Redis server holding the slot.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisSlot stores the value in one Redis string key.
type RedisSlot struct {
	rdb    *goredis.Client
	key    string
	logger *zap.Logger
}

// NewRedisSlot connects and pings the server.
func NewRedisSlot(opts RedisOptions, key string, logger *zap.Logger) (*RedisSlot, error) {
	if key == "" {
		return nil, fmt.Errorf("redis slot: empty key")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis slot: ping %s: %w", opts.Addr, err)
	}

	logger.Info("redis slot connected", zap.String("addr", opts.Addr), zap.String("key", key))
	return &RedisSlot{rdb: rdb, key: key, logger: logger}, nil
}

func (r *RedisSlot) Get(ctx context.Context) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return data, nil
}

func (r *RedisSlot) Set(ctx context.Context, data []byte) error {
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}

func (r *RedisSlot) Delete(ctx context.Context) error {
	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.key, err)
	}
	return nil
}

// Close releases the connection pool.
func (r *RedisSlot) Close() error {
	return r.rdb.Close()
}
