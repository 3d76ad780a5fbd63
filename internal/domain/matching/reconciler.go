package matching

import (
	"time"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/google/uuid"
)

// Reconciler runs the full reconciliation over one workspace's documents:
// partition by type, pair across types, compare each grouping, and assemble
// the results. It is a pure computation over the records it is given and
// performs no I/O.
type Reconciler struct {
	similarity TextSimilarity
	pairer     *DocumentPairer
	comparator *FieldComparator
}

// NewReconciler creates a Reconciler with the default Levenshtein similarity
func NewReconciler() *Reconciler {
	similarity := NewLevenshteinSimilarity()
	return &Reconciler{
		similarity: similarity,
		pairer:     NewDocumentPairer(similarity),
		comparator: NewFieldComparator(similarity),
	}
}

// Reconcile matches the workspace's documents and returns one MatchingResult
// per discovered PO/Invoice grouping. Records without extracted data, or
// whose document is not processed, are skipped.
func (r *Reconciler) Reconcile(workspaceID uuid.UUID, records []DocumentRecord) []MatchingResult {
	var pos, invoices, deliveryNotes []DocumentRecord
	for _, record := range records {
		if record.Document == nil || record.Data == nil || !record.Document.IsProcessed() {
			continue
		}
		switch record.Document.DocumentType {
		case document.TypePurchaseOrder:
			pos = append(pos, record)
		case document.TypeInvoice:
			invoices = append(invoices, record)
		case document.TypeDeliveryNote:
			deliveryNotes = append(deliveryNotes, record)
		}
	}

	groupings := r.pairer.Pair(pos, invoices, deliveryNotes)

	results := make([]MatchingResult, 0, len(groupings))
	for _, grouping := range groupings {
		results = append(results, r.buildResult(workspaceID, grouping))
	}
	return results
}

func (r *Reconciler) buildResult(workspaceID uuid.UUID, grouping Grouping) MatchingResult {
	po := grouping.PO
	inv := grouping.Invoice

	var dnData *document.ExtractedData
	if grouping.DeliveryNote != nil {
		dnData = grouping.DeliveryNote.Data
	}

	discrepancies := r.comparator.Compare(po.Data, inv.Data, dnData)

	poTotal := DocumentTotal(po.Data)
	invTotal := DocumentTotal(inv.Data)

	now := time.Now()
	result := MatchingResult{
		ID:                uuid.New(),
		WorkspaceID:       workspaceID,
		PODocumentID:      po.Document.ID,
		InvoiceDocumentID: inv.Document.ID,
		MatchedBy:         grouping.MatchedBy,
		MatchConfidence:   r.confidence(grouping),

		TotalPOAmount:      poTotal,
		TotalInvoiceAmount: invTotal,
		TotalDifference:    invTotal.Sub(poTotal).Abs(),

		Discrepancies: discrepancies,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if grouping.DeliveryNote != nil {
		result.DeliveryNoteDocumentID = &grouping.DeliveryNote.Document.ID
		if dnTotal := DocumentTotal(dnData); !dnTotal.IsZero() {
			result.TotalDeliveryAmount = &dnTotal
		}
	}

	return result
}

// confidence scores how the PO and invoice were associated: 100/0 for PO
// number equality, the fuzzy vendor score, and the overall figure taken from
// whichever path actually produced the match.
func (r *Reconciler) confidence(grouping Grouping) MatchConfidence {
	poData := grouping.PO.Data
	invData := grouping.Invoice.Data

	poNumberMatch := 0
	if n := normalizedPONumber(poData); n != "" && n == normalizedPONumber(invData) {
		poNumberMatch = 100
	}
	vendorNameMatch := r.similarity.Score(
		derefTrimmed(poData.VendorName), derefTrimmed(invData.VendorName))

	overall := vendorNameMatch
	if grouping.MatchedBy == MatchedByPONumber {
		overall = poNumberMatch
	}

	vendorName := derefTrimmed(poData.VendorName)
	if vendorName == "" {
		vendorName = derefTrimmed(invData.VendorName)
	}

	return MatchConfidence{
		PONumberMatch:   poNumberMatch,
		VendorNameMatch: vendorNameMatch,
		Overall:         overall,
		VendorName:      vendorName,
	}
}
