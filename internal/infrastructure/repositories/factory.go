package repositories

import (
	"context"

	"lawlink/internal/core/ports"
	"lawlink/internal/infrastructure/repositories/memory"
	redisrepo "lawlink/internal/infrastructure/repositories/redis"
	"lawlink/pkg/config"
	"lawlink/pkg/retry"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates the appointment store, preferring Redis when
// configured and falling back to memory when it is disabled or unreachable.
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Redis.Enabled,
		logger:   logger,
	}

	if cfg.Redis.Enabled {
		// The initial connection gets a bounded retry; recorder writes later
		// on never do.
		client, err := retry.RetryWithResult(context.Background(), retry.DefaultConfig(), func() (*redis.Client, error) {
			return redisrepo.NewRedisClient(
				cfg.Redis.Address,
				cfg.Redis.Password,
				cfg.Redis.DB,
				cfg.Redis.PoolSize,
				logger,
			)
		})
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory store",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis appointment store")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory appointment store")
	}

	return factory, nil
}

// CreateAppointmentStore creates the appointment store backing the session
// boundary recorder and the internal API.
func (f *RepositoryFactory) CreateAppointmentStore() ports.AppointmentStore {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisAppointmentStore(f.redisClient)
	}
	return memory.NewMemoryAppointmentStore()
}

// Close closes the Redis connection if one is held.
func (f *RepositoryFactory) Close() error {
	if f.redisClient != nil {
		return redisrepo.CloseRedisClient(f.redisClient)
	}
	return nil
}

// HealthCheck verifies the Redis connection when Redis is in use.
func (f *RepositoryFactory) HealthCheck(ctx context.Context) error {
	if f.useRedis && f.redisClient != nil {
		return f.redisClient.Ping(ctx).Err()
	}
	return nil
}
