package matching

import (
	"strings"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
)

// VendorNameThreshold is the minimum fuzzy score at which two vendor names
// are considered to name the same vendor when no PO number links documents.
const VendorNameThreshold = 85

// DocumentRecord couples a processed document with its extracted data. The
// pairer and reconciler only ever see records whose Data is non-nil.
type DocumentRecord struct {
	Document *document.Document
	Data     *document.ExtractedData
}

// Grouping is a PO/Invoice pair, optionally extended with a delivery note,
// that the pairer believes describes the same transaction.
type Grouping struct {
	PO           DocumentRecord
	Invoice      DocumentRecord
	DeliveryNote *DocumentRecord
	MatchedBy    MatchMethod
}

// DocumentPairer associates purchase orders with invoices and delivery notes
// across a workspace's documents.
type DocumentPairer struct {
	similarity TextSimilarity
}

// NewDocumentPairer creates a DocumentPairer using the given similarity
// capability for vendor name fallback matching.
func NewDocumentPairer(similarity TextSimilarity) *DocumentPairer {
	return &DocumentPairer{similarity: similarity}
}

// Pair groups purchase orders with invoices and delivery notes. For each PO
// in input order it takes the first invoice with an equal PO number, falling
// back to the first invoice whose vendor name scores at least 85; the
// delivery note is chosen the same way. A PO without an invoice yields no
// grouping. Invoices left over after the PO pass get a second chance by
// vendor name against any PO, recovering invoices that arrived without a
// usable PO number.
func (p *DocumentPairer) Pair(pos, invoices, deliveryNotes []DocumentRecord) []Grouping {
	var groupings []Grouping

	usedInvoices := make(map[int]bool, len(invoices))
	usedDeliveryNotes := make(map[int]bool, len(deliveryNotes))

	for _, po := range pos {
		invIdx, method := p.findCounterpart(po, invoices, usedInvoices)
		if invIdx < 0 {
			continue
		}
		usedInvoices[invIdx] = true

		grouping := Grouping{
			PO:        po,
			Invoice:   invoices[invIdx],
			MatchedBy: method,
		}
		if dnIdx, _ := p.findCounterpart(po, deliveryNotes, usedDeliveryNotes); dnIdx >= 0 {
			usedDeliveryNotes[dnIdx] = true
			dn := deliveryNotes[dnIdx]
			grouping.DeliveryNote = &dn
		}
		groupings = append(groupings, grouping)
	}

	// Second pass: invoices without a usable PO number can still belong to a
	// PO from the same vendor.
	for i, inv := range invoices {
		if usedInvoices[i] {
			continue
		}
		poIdx := p.findByVendor(inv, pos)
		if poIdx < 0 {
			continue
		}
		usedInvoices[i] = true

		po := pos[poIdx]
		grouping := Grouping{
			PO:        po,
			Invoice:   inv,
			MatchedBy: MatchedByVendorName,
		}
		if dnIdx, _ := p.findCounterpart(po, deliveryNotes, usedDeliveryNotes); dnIdx >= 0 {
			usedDeliveryNotes[dnIdx] = true
			dn := deliveryNotes[dnIdx]
			grouping.DeliveryNote = &dn
		}
		groupings = append(groupings, grouping)
	}

	return groupings
}

// findCounterpart returns the index of the first unused candidate whose PO
// number equals the PO's, or failing that the first unused candidate whose
// vendor name scores at least VendorNameThreshold, along with the method
// that produced the match. Returns -1 when nothing qualifies.
func (p *DocumentPairer) findCounterpart(po DocumentRecord, candidates []DocumentRecord, used map[int]bool) (int, MatchMethod) {
	poNumber := normalizedPONumber(po.Data)
	if poNumber != "" {
		for i, candidate := range candidates {
			if used[i] {
				continue
			}
			if normalizedPONumber(candidate.Data) == poNumber {
				return i, MatchedByPONumber
			}
		}
	}

	vendor := derefTrimmed(po.Data.VendorName)
	if vendor != "" {
		for i, candidate := range candidates {
			if used[i] {
				continue
			}
			if p.similarity.Score(vendor, derefTrimmed(candidate.Data.VendorName)) >= VendorNameThreshold {
				return i, MatchedByVendorName
			}
		}
	}

	return -1, ""
}

// findByVendor returns the index of the first PO whose vendor name matches
// the invoice's at VendorNameThreshold or better, or -1.
func (p *DocumentPairer) findByVendor(inv DocumentRecord, pos []DocumentRecord) int {
	vendor := derefTrimmed(inv.Data.VendorName)
	if vendor == "" {
		return -1
	}
	for i, po := range pos {
		if p.similarity.Score(vendor, derefTrimmed(po.Data.VendorName)) >= VendorNameThreshold {
			return i
		}
	}
	return -1
}

// normalizedPONumber returns the document's PO number uppercased and
// trimmed, or "" when absent.
func normalizedPONumber(data *document.ExtractedData) string {
	if data == nil || data.PONumber == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*data.PONumber))
}
