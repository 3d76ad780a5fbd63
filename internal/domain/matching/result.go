package matching

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscrepancyType identifies what kind of difference was detected
type DiscrepancyType string

const (
	DiscrepancyQuantityMismatch    DiscrepancyType = "quantity_mismatch"
	DiscrepancyPriceChange         DiscrepancyType = "price_change"
	DiscrepancyMissingItem         DiscrepancyType = "missing_item"
	DiscrepancyExtraItem           DiscrepancyType = "extra_item"
	DiscrepancyDescriptionMismatch DiscrepancyType = "description_mismatch"
	DiscrepancyTaxAmountMismatch   DiscrepancyType = "tax_amount_mismatch"
	DiscrepancyTaxRateMismatch     DiscrepancyType = "tax_rate_mismatch"
	DiscrepancyCurrencyMismatch    DiscrepancyType = "currency_mismatch"
)

// String returns the string representation of DiscrepancyType
func (t DiscrepancyType) String() string {
	return string(t)
}

// Severity is the ordinal importance of a discrepancy
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// rank orders severities for comparisons in reports and tests
func (s Severity) rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	}
	return -1
}

// AtLeast returns true if s is as severe as other or more
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}

// FieldValues carries the document-side values a discrepancy refers to.
// Only the fields relevant to the discrepancy type are set; for missing and
// extra items the whole line item is attached.
type FieldValues struct {
	Quantity     *decimal.Decimal   `json:"quantity,omitempty"`
	UnitPrice    *decimal.Decimal   `json:"unit_price,omitempty"`
	Description  *string            `json:"description,omitempty"`
	CurrencyCode *string            `json:"currency_code,omitempty"`
	TaxRate      *decimal.Decimal   `json:"tax_rate,omitempty"`
	TaxAmount    *decimal.Decimal   `json:"tax_amount,omitempty"`
	LineItem     *document.LineItem `json:"line_item,omitempty"`
}

// Discrepancy is one detected difference between matched documents
type Discrepancy struct {
	Type          DiscrepancyType `json:"type"`
	Severity      Severity        `json:"severity"`
	ItemNumber    *string         `json:"item_number,omitempty"`
	Description   *string         `json:"description,omitempty"`
	POValue       *FieldValues    `json:"po_value,omitempty"`
	InvoiceValue  *FieldValues    `json:"invoice_value,omitempty"`
	DeliveryValue *FieldValues    `json:"delivery_value,omitempty"`
	Message       string          `json:"message"`
}

// DiscrepancyList is stored as a JSON column on MatchingResult
type DiscrepancyList []Discrepancy

// Value implements driver.Valuer for GORM JSON storage
func (l DiscrepancyList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM JSON storage
func (l *DiscrepancyList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into DiscrepancyList", value)
	}
}

// MatchMethod records how a PO and an invoice were associated
type MatchMethod string

const (
	MatchedByPONumber   MatchMethod = "po_number"
	MatchedByVendorName MatchMethod = "vendor_name"
)

// MatchConfidence holds the structured matching scores for a grouping
type MatchConfidence struct {
	PONumberMatch   int    `json:"po_number_match"`
	VendorNameMatch int    `json:"vendor_name_match"`
	Overall         int    `json:"overall"`
	VendorName      string `json:"vendor_name"`
}

// Value implements driver.Valuer for GORM JSON storage
func (m MatchConfidence) Value() (driver.Value, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM JSON storage
func (m *MatchConfidence) Scan(value interface{}) error {
	if value == nil {
		*m = MatchConfidence{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into MatchConfidence", value)
	}
}

// MatchingResult is the outcome of reconciling one PO/Invoice(/DN) grouping.
// Results are immutable value objects created fresh on every reconciliation
// run; persistence policy belongs to the caller.
type MatchingResult struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	WorkspaceID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	PODocumentID           uuid.UUID  `gorm:"type:uuid;not null" json:"po_document_id"`
	InvoiceDocumentID      uuid.UUID  `gorm:"type:uuid;not null" json:"invoice_document_id"`
	DeliveryNoteDocumentID *uuid.UUID `gorm:"type:uuid" json:"delivery_note_document_id,omitempty"`

	MatchedBy       MatchMethod     `gorm:"type:varchar(20);not null" json:"matched_by"`
	MatchConfidence MatchConfidence `gorm:"type:text" json:"match_confidence"`

	TotalPOAmount       decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total_po_amount"`
	TotalInvoiceAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total_invoice_amount"`
	TotalDeliveryAmount *decimal.Decimal `gorm:"type:decimal(18,4)" json:"total_delivery_amount,omitempty"`
	TotalDifference     decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total_difference"`

	Discrepancies DiscrepancyList `gorm:"type:text" json:"discrepancies"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (MatchingResult) TableName() string {
	return "matching_results"
}

// HasDeliveryNote returns true if the grouping includes a delivery note
func (r *MatchingResult) HasDeliveryNote() bool {
	return r.DeliveryNoteDocumentID != nil
}

// CountBySeverity returns how many discrepancies carry the given severity
func (r *MatchingResult) CountBySeverity(severity Severity) int {
	n := 0
	for _, d := range r.Discrepancies {
		if d.Severity == severity {
			n++
		}
	}
	return n
}
