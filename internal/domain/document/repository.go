package document

import (
	"context"

	"github.com/google/uuid"
)

// WorkspaceRepository defines persistence operations for workspaces
type WorkspaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	FindAll(ctx context.Context) ([]Workspace, error)
	Save(ctx context.Context, workspace *Workspace) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository defines persistence operations for documents
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]Document, error)
	FindByWorkspaceAndStatus(ctx context.Context, workspaceID uuid.UUID, status Status) ([]Document, error)
	Save(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExtractedDataRepository defines persistence operations for extraction output
type ExtractedDataRepository interface {
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*ExtractedData, error)
	FindByDocuments(ctx context.Context, documentIDs []uuid.UUID) ([]ExtractedData, error)
	Save(ctx context.Context, data *ExtractedData) error
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}
