package workspace

import (
	"context"
	"errors"

	appdocument "github.com/StephaneWamba/InvoiceFlow/internal/application/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles workspace operations
type Service struct {
	workspaceRepo document.WorkspaceRepository
	documentRepo  document.Repository
	storage       appdocument.ObjectStorage
	logger        *zap.Logger
}

// NewService creates a new workspace Service
func NewService(
	workspaceRepo document.WorkspaceRepository,
	documentRepo document.Repository,
	storage appdocument.ObjectStorage,
	logger *zap.Logger,
) *Service {
	return &Service{
		workspaceRepo: workspaceRepo,
		documentRepo:  documentRepo,
		storage:       storage,
		logger:        logger,
	}
}

// Create creates a new workspace
func (s *Service) Create(ctx context.Context, req CreateWorkspaceRequest) (*WorkspaceResponse, error) {
	workspace, err := document.NewWorkspace(req.Name, req.IsTemporary)
	if err != nil {
		return nil, err
	}

	if err := s.workspaceRepo.Save(ctx, workspace); err != nil {
		return nil, err
	}

	response := ToWorkspaceResponse(workspace)
	return &response, nil
}

// GetByID gets a workspace by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*WorkspaceResponse, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("WORKSPACE_NOT_FOUND", "Workspace not found")
		}
		return nil, err
	}

	response := ToWorkspaceResponse(workspace)
	return &response, nil
}

// List lists all workspaces
func (s *Service) List(ctx context.Context) ([]WorkspaceResponse, error) {
	workspaces, err := s.workspaceRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToWorkspaceResponses(workspaces), nil
}

// Update renames a workspace
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateWorkspaceRequest) (*WorkspaceResponse, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("WORKSPACE_NOT_FOUND", "Workspace not found")
		}
		return nil, err
	}

	if err := workspace.Rename(req.Name); err != nil {
		return nil, err
	}

	if err := s.workspaceRepo.Save(ctx, workspace); err != nil {
		return nil, err
	}

	response := ToWorkspaceResponse(workspace)
	return &response, nil
}

// Delete deletes a workspace together with its documents and their stored
// files. Rows cascade at the database level; blobs are removed here.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.workspaceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("WORKSPACE_NOT_FOUND", "Workspace not found")
		}
		return err
	}

	documents, err := s.documentRepo.FindByWorkspace(ctx, id)
	if err != nil {
		return err
	}
	for i := range documents {
		// A missing blob must not block workspace deletion
		if err := s.storage.Delete(ctx, documents[i].FilePath); err != nil {
			s.logger.Warn("Failed to delete document blob",
				zap.String("workspace_id", id.String()),
				zap.String("document_id", documents[i].ID.String()),
				zap.String("file_path", documents[i].FilePath),
				zap.Error(err),
			)
		}
	}

	return s.workspaceRepo.Delete(ctx, id)
}
