package extraction

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	appdocument "github.com/StephaneWamba/InvoiceFlow/internal/application/document"
	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/shopspring/decimal"
)

const stubModelName = "stub-v1"

// StubExtractor produces extraction output without calling an external
// service. Content that looks like "field: value" lines is parsed into
// header fields, which lets development fixtures and tests drive exact
// extraction results; anything unparseable yields an empty record.
//
// Recognized header fields: po_number, invoice_number, delivery_note_number,
// vendor_name, vendor_address, date (2006-01-02), total_amount, subtotal,
// tax_amount, currency_code. Line items use
// "line: item_number|description|quantity|unit_price|line_total" with empty
// segments kept null.
type StubExtractor struct{}

// NewStubExtractor creates a stub extractor
func NewStubExtractor() *StubExtractor {
	return &StubExtractor{}
}

// Extract parses the content into an extraction record for the document
func (e *StubExtractor) Extract(_ context.Context, doc *document.Document, content io.Reader) (*document.ExtractedData, error) {
	data, err := document.NewExtractedData(doc.ID)
	if err != nil {
		return nil, err
	}
	data.ExtractionModel = stubModelName
	data.ConfidenceScores = document.ConfidenceScores{}

	scanner := bufio.NewScanner(content)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if key == "line" {
			if item, ok := parseLineItem(value); ok {
				data.LineItems = append(data.LineItems, item)
			}
			continue
		}
		if applyHeaderField(data, key, value) {
			data.ConfidenceScores[key] = 1.0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func applyHeaderField(data *document.ExtractedData, key, value string) bool {
	switch key {
	case "po_number":
		data.PONumber = &value
	case "invoice_number":
		data.InvoiceNumber = &value
	case "delivery_note_number":
		data.DeliveryNoteNumber = &value
	case "vendor_name":
		data.VendorName = &value
	case "vendor_address":
		data.VendorAddress = &value
	case "currency_code":
		data.CurrencyCode = &value
	case "date":
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return false
		}
		data.Date = &t
	case "total_amount":
		return setDecimal(&data.TotalAmount, value)
	case "subtotal":
		return setDecimal(&data.Subtotal, value)
	case "tax_amount":
		return setDecimal(&data.TaxAmount, value)
	case "tax_rate":
		return setDecimal(&data.TaxRate, value)
	default:
		return false
	}
	return true
}

func setDecimal(target **decimal.Decimal, value string) bool {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}
	*target = &d
	return true
}

func parseLineItem(value string) (document.LineItem, bool) {
	parts := strings.Split(value, "|")
	if len(parts) != 5 {
		return document.LineItem{}, false
	}
	var item document.LineItem
	if s := strings.TrimSpace(parts[0]); s != "" {
		item.ItemNumber = &s
	}
	if s := strings.TrimSpace(parts[1]); s != "" {
		item.Description = &s
	}
	item.Quantity = parseDecimalPtr(parts[2])
	item.UnitPrice = parseDecimalPtr(parts[3])
	item.LineTotal = parseDecimalPtr(parts[4])
	return item, true
}

func parseDecimalPtr(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

var _ appdocument.Extractor = (*StubExtractor)(nil)
