package cache

import (
	"context"
	"fmt"
	"time"

	appmatching "github.com/StephaneWamba/InvoiceFlow/internal/application/matching"
	"github.com/StephaneWamba/InvoiceFlow/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 5 * time.Minute

// RedisReconcileLock implements ReconcileLock using Redis. It is suitable
// for distributed deployments where multiple instances may try to reconcile
// the same workspace concurrently.
type RedisReconcileLock struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisReconcileLock creates a Redis-backed reconcile lock from configuration
func NewRedisReconcileLock(cfg config.RedisConfig) (*RedisReconcileLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	return &RedisReconcileLock{
		client:    client,
		keyPrefix: "reconcile:lock:",
		ttl:       ttl,
	}, nil
}

// NewRedisReconcileLockWithClient creates a lock with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisReconcileLockWithClient(client *redis.Client, ttl time.Duration) *RedisReconcileLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisReconcileLock{
		client:    client,
		keyPrefix: "reconcile:lock:",
		ttl:       ttl,
	}
}

// Acquire attempts to take the workspace's lock. Returns false if another
// run currently holds it. The TTL bounds lock lifetime so a crashed run
// cannot block the workspace forever.
func (l *RedisReconcileLock) Acquire(ctx context.Context, workspaceID uuid.UUID) (bool, error) {
	key := l.keyPrefix + workspaceID.String()

	acquired, err := l.client.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire reconcile lock: %w", err)
	}

	return acquired, nil
}

// Release frees the workspace's lock
func (l *RedisReconcileLock) Release(ctx context.Context, workspaceID uuid.UUID) error {
	key := l.keyPrefix + workspaceID.String()

	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to release reconcile lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisReconcileLock) Close() error {
	return l.client.Close()
}

// Ensure RedisReconcileLock implements ReconcileLock
var _ appmatching.ReconcileLock = (*RedisReconcileLock)(nil)
