package persistence

import (
	"context"
	"errors"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWorkspaceRepository implements WorkspaceRepository using GORM
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewGormWorkspaceRepository creates a new GormWorkspaceRepository
func NewGormWorkspaceRepository(db *gorm.DB) *GormWorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// FindByID finds a workspace by its ID
func (r *GormWorkspaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Workspace, error) {
	var workspace document.Workspace
	if err := r.db.WithContext(ctx).First(&workspace, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &workspace, nil
}

// FindAll returns all workspaces, newest first
func (r *GormWorkspaceRepository) FindAll(ctx context.Context) ([]document.Workspace, error) {
	var workspaces []document.Workspace
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Save creates or updates a workspace
func (r *GormWorkspaceRepository) Save(ctx context.Context, workspace *document.Workspace) error {
	return r.db.WithContext(ctx).Save(workspace).Error
}

// Delete deletes a workspace. Documents, extracted data and matching results
// belonging to the workspace are removed by the database cascade.
func (r *GormWorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&document.Workspace{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormWorkspaceRepository implements WorkspaceRepository
var _ document.WorkspaceRepository = (*GormWorkspaceRepository)(nil)
