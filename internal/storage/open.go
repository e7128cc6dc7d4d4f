package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/klabast/wb-services/planning-bilans/internal/config"
)

// Open builds the slot selected by storage.backend. The returned close function
// releases backend resources and is never nil.
func Open(cfg *config.Config, logger *zap.Logger) (Slot, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendFile:
		slot, err := NewFileSlot(cfg.Storage.Dir, cfg.Storage.Key, logger)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("using file storage", zap.String("path", slot.Path()))
		return slot, noop, nil
	case config.BackendRedis:
		slot, err := NewRedisSlot(RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Storage.Key, logger)
		if err != nil {
			return nil, noop, err
		}
		return slot, slot.Close, nil
	case config.BackendMemory:
		logger.Warn("using memory storage, the schedule is lost on restart")
		return NewMemorySlot(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
