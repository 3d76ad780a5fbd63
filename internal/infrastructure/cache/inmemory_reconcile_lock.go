package cache

import (
	"context"
	"sync"
	"time"

	appmatching "github.com/StephaneWamba/InvoiceFlow/internal/application/matching"
	"github.com/google/uuid"
)

// InMemoryReconcileLock implements ReconcileLock using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryReconcileLock struct {
	mu    sync.Mutex
	held  map[uuid.UUID]time.Time
	ttl   time.Duration
	clock func() time.Time
}

// NewInMemoryReconcileLock creates an in-memory reconcile lock
func NewInMemoryReconcileLock(ttl time.Duration) *InMemoryReconcileLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &InMemoryReconcileLock{
		held:  make(map[uuid.UUID]time.Time),
		ttl:   ttl,
		clock: time.Now,
	}
}

// Acquire attempts to take the workspace's lock. Expired locks are treated
// as free.
func (l *InMemoryReconcileLock) Acquire(ctx context.Context, workspaceID uuid.UUID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expiresAt, exists := l.held[workspaceID]; exists && now.Before(expiresAt) {
		return false, nil
	}

	l.held[workspaceID] = now.Add(l.ttl)
	return true, nil
}

// Release frees the workspace's lock
func (l *InMemoryReconcileLock) Release(ctx context.Context, workspaceID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, workspaceID)
	return nil
}

// Ensure InMemoryReconcileLock implements ReconcileLock
var _ appmatching.ReconcileLock = (*InMemoryReconcileLock)(nil)
