package document

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one line of a trade document as produced by the extraction
// service. Every field is nullable: extraction regularly misses fields, and
// absence must stay distinguishable from zero.
type LineItem struct {
	ItemNumber  *string          `json:"item_number,omitempty"`
	Description *string          `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	LineTotal   *decimal.Decimal `json:"line_total,omitempty"`
}

// LineItems is an ordered list of line items stored as a JSON column
type LineItems []LineItem

// Value implements driver.Valuer for GORM JSON storage
func (l LineItems) Value() (driver.Value, error) {
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
func (l *LineItems) Scan(value interface{}) error {
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
		return fmt.Errorf("cannot scan %T into LineItems", value)
	}
}

// ConfidenceScores holds field-level extraction confidence as a JSON column
type ConfidenceScores map[string]float64

// Value implements driver.Valuer for GORM JSON storage
func (c ConfidenceScores) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM JSON storage
func (c *ConfidenceScores) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("cannot scan %T into ConfidenceScores", value)
	}
}

// ExtractedData is the structured output of the extraction service for one
// document. One-to-one with Document. All header fields are nullable.
type ExtractedData struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"document_id"`

	PONumber           *string    `gorm:"type:varchar(100)" json:"po_number,omitempty"`
	InvoiceNumber      *string    `gorm:"type:varchar(100)" json:"invoice_number,omitempty"`
	DeliveryNoteNumber *string    `gorm:"type:varchar(100)" json:"delivery_note_number,omitempty"`
	VendorName         *string    `gorm:"type:varchar(200)" json:"vendor_name,omitempty"`
	VendorAddress      *string    `gorm:"type:varchar(500)" json:"vendor_address,omitempty"`
	Date               *time.Time `json:"date,omitempty"`

	TotalAmount  *decimal.Decimal `gorm:"type:decimal(18,4)" json:"total_amount,omitempty"`
	Subtotal     *decimal.Decimal `gorm:"type:decimal(18,4)" json:"subtotal,omitempty"`
	TaxAmount    *decimal.Decimal `gorm:"type:decimal(18,4)" json:"tax_amount,omitempty"`
	TaxRate      *decimal.Decimal `gorm:"type:decimal(8,4)" json:"tax_rate,omitempty"`
	CurrencyCode *string          `gorm:"type:varchar(3)" json:"currency_code,omitempty"`

	LineItems        LineItems        `gorm:"type:text" json:"line_items"`
	ConfidenceScores ConfidenceScores `gorm:"type:text" json:"confidence_scores,omitempty"`
	ExtractionModel  string           `gorm:"type:varchar(100)" json:"extraction_model,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for GORM
func (ExtractedData) TableName() string {
	return "extracted_data"
}

// NewExtractedData creates an extraction record for a document
func NewExtractedData(documentID uuid.UUID) (*ExtractedData, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	now := time.Now()
	return &ExtractedData{
		ID:         uuid.New(),
		DocumentID: documentID,
		LineItems:  LineItems{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// HasLineItems returns true if extraction produced at least one line item
func (e *ExtractedData) HasLineItems() bool {
	return len(e.LineItems) > 0
}
