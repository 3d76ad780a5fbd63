package document

import (
	"time"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID           uuid.UUID `json:"id"`
	WorkspaceID  uuid.UUID `json:"workspace_id"`
	DocumentType string    `json:"document_type"`
	Status       string    `json:"status"`
	FileName     string    `json:"file_name"`
	FileSize     int64     `json:"file_size"`
	PageCount    *int      `json:"page_count,omitempty"`
	FailReason   string    `json:"fail_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExtractedDataResponse represents extraction output in API responses
type ExtractedDataResponse struct {
	ID                 uuid.UUID          `json:"id"`
	DocumentID         uuid.UUID          `json:"document_id"`
	PONumber           *string            `json:"po_number,omitempty"`
	InvoiceNumber      *string            `json:"invoice_number,omitempty"`
	DeliveryNoteNumber *string            `json:"delivery_note_number,omitempty"`
	VendorName         *string            `json:"vendor_name,omitempty"`
	VendorAddress      *string            `json:"vendor_address,omitempty"`
	Date               *time.Time         `json:"date,omitempty"`
	TotalAmount        *decimal.Decimal   `json:"total_amount,omitempty"`
	Subtotal           *decimal.Decimal   `json:"subtotal,omitempty"`
	TaxAmount          *decimal.Decimal   `json:"tax_amount,omitempty"`
	TaxRate            *decimal.Decimal   `json:"tax_rate,omitempty"`
	CurrencyCode       *string            `json:"currency_code,omitempty"`
	LineItems          document.LineItems `json:"line_items"`
	ConfidenceScores   map[string]float64 `json:"confidence_scores,omitempty"`
	ExtractionModel    string             `json:"extraction_model,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

// ToDocumentResponse converts a document to its response representation
func ToDocumentResponse(d *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		WorkspaceID:  d.WorkspaceID,
		DocumentType: d.DocumentType.String(),
		Status:       d.Status.String(),
		FileName:     d.FileName,
		FileSize:     d.FileSize,
		PageCount:    d.PageCount,
		FailReason:   d.FailReason,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ToDocumentResponses converts a list of documents
func ToDocumentResponses(documents []document.Document) []DocumentResponse {
	responses := make([]DocumentResponse, len(documents))
	for i := range documents {
		responses[i] = ToDocumentResponse(&documents[i])
	}
	return responses
}

// ToExtractedDataResponse converts extracted data to its response representation
func ToExtractedDataResponse(e *document.ExtractedData) ExtractedDataResponse {
	return ExtractedDataResponse{
		ID:                 e.ID,
		DocumentID:         e.DocumentID,
		PONumber:           e.PONumber,
		InvoiceNumber:      e.InvoiceNumber,
		DeliveryNoteNumber: e.DeliveryNoteNumber,
		VendorName:         e.VendorName,
		VendorAddress:      e.VendorAddress,
		Date:               e.Date,
		TotalAmount:        e.TotalAmount,
		Subtotal:           e.Subtotal,
		TaxAmount:          e.TaxAmount,
		TaxRate:            e.TaxRate,
		CurrencyCode:       e.CurrencyCode,
		LineItems:          e.LineItems,
		ConfidenceScores:   e.ConfidenceScores,
		ExtractionModel:    e.ExtractionModel,
		CreatedAt:          e.CreatedAt,
	}
}
