package persistence

import (
	"context"
	"errors"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/matching"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMatchingResultRepository implements matching.ResultRepository using GORM
type GormMatchingResultRepository struct {
	db *gorm.DB
}

// NewGormMatchingResultRepository creates a new GormMatchingResultRepository
func NewGormMatchingResultRepository(db *gorm.DB) *GormMatchingResultRepository {
	return &GormMatchingResultRepository{db: db}
}

// FindByID finds a matching result by its ID
func (r *GormMatchingResultRepository) FindByID(ctx context.Context, id uuid.UUID) (*matching.MatchingResult, error) {
	var result matching.MatchingResult
	if err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// FindByWorkspace finds all matching results for a workspace in run order
func (r *GormMatchingResultRepository) FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]matching.MatchingResult, error) {
	var results []matching.MatchingResult
	if err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SaveAll persists a batch of matching results
func (r *GormMatchingResultRepository) SaveAll(ctx context.Context, results []matching.MatchingResult) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&results).Error
}

// DeleteByWorkspace deletes all matching results for a workspace
func (r *GormMatchingResultRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&matching.MatchingResult{}, "workspace_id = ?", workspaceID).Error
}

// ReplaceForWorkspace swaps the workspace's previous results for the given set
// in a single transaction, so readers never observe a mix of two runs.
func (r *GormMatchingResultRepository) ReplaceForWorkspace(ctx context.Context, workspaceID uuid.UUID, results []matching.MatchingResult) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&matching.MatchingResult{}, "workspace_id = ?", workspaceID).Error; err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		return tx.Create(&results).Error
	})
}

// Ensure GormMatchingResultRepository implements matching.ResultRepository
var _ matching.ResultRepository = (*GormMatchingResultRepository)(nil)
