package workspace

import (
	"time"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/google/uuid"
)

// CreateWorkspaceRequest represents a request to create a new workspace
type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	IsTemporary bool   `json:"is_temporary"`
}

// UpdateWorkspaceRequest represents a request to rename a workspace
type UpdateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// WorkspaceResponse represents a workspace in API responses
type WorkspaceResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	IsTemporary bool      `json:"is_temporary"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToWorkspaceResponse converts a workspace to its response representation
func ToWorkspaceResponse(w *document.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:          w.ID,
		Name:        w.Name,
		IsTemporary: w.IsTemporary,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// ToWorkspaceResponses converts a list of workspaces
func ToWorkspaceResponses(workspaces []document.Workspace) []WorkspaceResponse {
	responses := make([]WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		responses[i] = ToWorkspaceResponse(&workspaces[i])
	}
	return responses
}
