package document

import (
	"fmt"
	"time"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
)

// Type identifies the commercial document class
type Type string

const (
	TypePurchaseOrder Type = "PURCHASE_ORDER"
	TypeInvoice       Type = "INVOICE"
	TypeDeliveryNote  Type = "DELIVERY_NOTE"
)

// IsValid checks if the type is a known document type
func (t Type) IsValid() bool {
	switch t {
	case TypePurchaseOrder, TypeInvoice, TypeDeliveryNote:
		return true
	}
	return false
}

// String returns the string representation of Type
func (t Type) String() string {
	return string(t)
}

// Status represents the processing status of an uploaded document
type Status string

const (
	StatusUploaded   Status = "UPLOADED"
	StatusProcessing Status = "PROCESSING"
	StatusProcessed  Status = "PROCESSED"
	StatusFailed     Status = "FAILED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusProcessed, StatusFailed:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusUploaded:
		return target == StatusProcessing || target == StatusFailed
	case StatusProcessing:
		return target == StatusProcessed || target == StatusFailed
	case StatusProcessed, StatusFailed:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if no further processing happens in this status
func (s Status) IsTerminal() bool {
	return s == StatusProcessed || s == StatusFailed
}

// Document represents an uploaded trade document (PO, invoice or delivery note).
// Extraction output is stored separately as ExtractedData; a document without
// extracted data cannot participate in reconciliation.
type Document struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	WorkspaceID  uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	DocumentType Type      `gorm:"type:varchar(20);not null" json:"document_type"`
	Status       Status    `gorm:"type:varchar(20);not null;default:'UPLOADED'" json:"status"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FilePath     string    `gorm:"type:varchar(500);not null" json:"file_path"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	PageCount    *int      `json:"page_count,omitempty"`
	FailReason   string    `gorm:"type:varchar(500)" json:"fail_reason,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument creates a new document record in UPLOADED status
func NewDocument(workspaceID uuid.UUID, docType Type, fileName, filePath string, fileSize int64) (*Document, error) {
	if workspaceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WORKSPACE", "Workspace ID cannot be empty")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", fmt.Sprintf("Unknown document type %q", docType))
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if filePath == "" {
		return nil, shared.NewDomainError("INVALID_FILE_PATH", "File path cannot be empty")
	}
	if fileSize <= 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size must be positive")
	}

	now := time.Now()
	return &Document{
		ID:           uuid.New(),
		WorkspaceID:  workspaceID,
		DocumentType: docType,
		Status:       StatusUploaded,
		FileName:     fileName,
		FilePath:     filePath,
		FileSize:     fileSize,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetPageCount records the page count determined during upload validation
func (d *Document) SetPageCount(pages int) {
	d.PageCount = &pages
	d.UpdatedAt = time.Now()
}

// MarkProcessing transitions the document to PROCESSING
func (d *Document) MarkProcessing() error {
	return d.transition(StatusProcessing)
}

// MarkProcessed transitions the document to PROCESSED
func (d *Document) MarkProcessed() error {
	return d.transition(StatusProcessed)
}

// MarkFailed transitions the document to FAILED with a reason
func (d *Document) MarkFailed(reason string) error {
	if err := d.transition(StatusFailed); err != nil {
		return err
	}
	d.FailReason = reason
	return nil
}

func (d *Document) transition(target Status) error {
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition document from %s to %s", d.Status, target))
	}
	d.Status = target
	d.UpdatedAt = time.Now()
	return nil
}

// IsProcessed returns true if extraction completed successfully
func (d *Document) IsProcessed() bool {
	return d.Status == StatusProcessed
}
