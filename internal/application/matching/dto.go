package matching

import (
	"time"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/matching"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeveritySummary counts discrepancies per severity
type SeveritySummary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// MatchingResultResponse represents a matching result in API responses
type MatchingResultResponse struct {
	ID                     uuid.UUID  `json:"id"`
	WorkspaceID            uuid.UUID  `json:"workspace_id"`
	PODocumentID           uuid.UUID  `json:"po_document_id"`
	InvoiceDocumentID      uuid.UUID  `json:"invoice_document_id"`
	DeliveryNoteDocumentID *uuid.UUID `json:"delivery_note_document_id,omitempty"`

	MatchedBy       string                   `json:"matched_by"`
	MatchConfidence matching.MatchConfidence `json:"match_confidence"`

	TotalPOAmount       decimal.Decimal  `json:"total_po_amount"`
	TotalInvoiceAmount  decimal.Decimal  `json:"total_invoice_amount"`
	TotalDeliveryAmount *decimal.Decimal `json:"total_delivery_amount,omitempty"`
	TotalDifference     decimal.Decimal  `json:"total_difference"`

	Discrepancies []matching.Discrepancy `json:"discrepancies"`
	Summary       SeveritySummary        `json:"summary"`

	CreatedAt time.Time `json:"created_at"`
}

// RunResponse represents the outcome of a reconciliation run
type RunResponse struct {
	WorkspaceID uuid.UUID                `json:"workspace_id"`
	ResultCount int                      `json:"result_count"`
	Results     []MatchingResultResponse `json:"results"`
}

// ToMatchingResultResponse converts a matching result to its response representation
func ToMatchingResultResponse(r *matching.MatchingResult) MatchingResultResponse {
	return MatchingResultResponse{
		ID:                     r.ID,
		WorkspaceID:            r.WorkspaceID,
		PODocumentID:           r.PODocumentID,
		InvoiceDocumentID:      r.InvoiceDocumentID,
		DeliveryNoteDocumentID: r.DeliveryNoteDocumentID,
		MatchedBy:              string(r.MatchedBy),
		MatchConfidence:        r.MatchConfidence,
		TotalPOAmount:          r.TotalPOAmount,
		TotalInvoiceAmount:     r.TotalInvoiceAmount,
		TotalDeliveryAmount:    r.TotalDeliveryAmount,
		TotalDifference:        r.TotalDifference,
		Discrepancies:          r.Discrepancies,
		Summary: SeveritySummary{
			Critical: r.CountBySeverity(matching.SeverityCritical),
			High:     r.CountBySeverity(matching.SeverityHigh),
			Medium:   r.CountBySeverity(matching.SeverityMedium),
			Low:      r.CountBySeverity(matching.SeverityLow),
		},
		CreatedAt: r.CreatedAt,
	}
}

// ToMatchingResultResponses converts a list of matching results
func ToMatchingResultResponses(results []matching.MatchingResult) []MatchingResultResponse {
	responses := make([]MatchingResultResponse, len(results))
	for i := range results {
		responses[i] = ToMatchingResultResponse(&results[i])
	}
	return responses
}
