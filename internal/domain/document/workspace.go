package document

import (
	"time"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
)

// Workspace groups the documents of one reconciliation session.
// Temporary workspaces are candidates for periodic cleanup.
type Workspace struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	IsTemporary bool      `gorm:"not null;default:true" json:"is_temporary"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Workspace) TableName() string {
	return "workspaces"
}

// NewWorkspace creates a new workspace
func NewWorkspace(name string, temporary bool) (*Workspace, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Workspace name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Workspace name cannot exceed 200 characters")
	}

	now := time.Now()
	return &Workspace{
		ID:          uuid.New(),
		Name:        name,
		IsTemporary: temporary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Rename changes the workspace name
func (w *Workspace) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Workspace name cannot be empty")
	}
	w.Name = name
	w.UpdatedAt = time.Now()
	return nil
}
