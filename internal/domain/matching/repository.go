package matching

import (
	"context"

	"github.com/google/uuid"
)

// ResultRepository persists matching results
type ResultRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MatchingResult, error)
	FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]MatchingResult, error)
	SaveAll(ctx context.Context, results []MatchingResult) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error
	// ReplaceForWorkspace atomically swaps the workspace's previous results
	// for the given set.
	ReplaceForWorkspace(ctx context.Context, workspaceID uuid.UUID, results []MatchingResult) error
}
