package matching

import (
	"fmt"
	"strings"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
	"github.com/shopspring/decimal"
)

// Comparison tolerances. Quantities and prices within a cent (or a hundredth
// of a unit) of each other are treated as equal to absorb floating point noise
// in extracted values.
var (
	quantityTolerance = decimal.NewFromFloat(0.01)
	priceTolerance    = decimal.NewFromFloat(0.01)
	taxRateTolerance  = decimal.NewFromFloat(0.1)
)

// FieldComparator compares the extracted fields and line items of a matched
// PO/Invoice(/DN) grouping and emits typed discrepancies.
type FieldComparator struct {
	similarity TextSimilarity
	matcher    *ItemMatcher
}

// NewFieldComparator creates a FieldComparator using the given similarity
// capability for description checks and line-item matching.
func NewFieldComparator(similarity TextSimilarity) *FieldComparator {
	return &FieldComparator{
		similarity: similarity,
		matcher:    NewItemMatcher(similarity, DefaultDescriptionThreshold),
	}
}

// Compare reconciles the PO against the invoice (and delivery note when
// present) and returns all detected discrepancies in deterministic order:
// per-item findings first, then missing and extra items, delivery-note
// findings, and finally the document-level currency and tax checks.
// dn may be nil.
func (c *FieldComparator) Compare(po, inv, dn *document.ExtractedData) []Discrepancy {
	discrepancies := c.compareLineItems(po, inv, dn)
	discrepancies = c.compareCurrency(po, inv, discrepancies)
	discrepancies = c.compareTaxRate(po, inv, discrepancies)
	discrepancies = c.compareTaxAmount(po, inv, discrepancies)
	return discrepancies
}

// compareLineItems matches PO lines against invoice lines and flags quantity,
// price and description differences, unmatched lines on either side, and
// quantity differences against the delivery note.
func (c *FieldComparator) compareLineItems(po, inv, dn *document.ExtractedData) []Discrepancy {
	var discrepancies []Discrepancy

	poItems := po.LineItems
	invItems := inv.LineItems

	set := c.matcher.Match(poItems, invItems)

	for _, pair := range set.Pairs {
		poItem := poItems[pair.Left]
		invItem := invItems[pair.Right]

		itemNumber := firstString(poItem.ItemNumber, invItem.ItemNumber)
		description := firstString(poItem.Description, invItem.Description)

		// Quantity mismatch
		poQty := valueOrZero(poItem.Quantity)
		invQty := valueOrZero(invItem.Quantity)
		if poQty.Sub(invQty).Abs().GreaterThan(quantityTolerance) {
			discrepancies = append(discrepancies, Discrepancy{
				Type:         DiscrepancyQuantityMismatch,
				Severity:     quantitySeverity(poQty, invQty),
				ItemNumber:   itemNumber,
				Description:  description,
				POValue:      &FieldValues{Quantity: &poQty},
				InvoiceValue: &FieldValues{Quantity: &invQty},
				Message:      fmt.Sprintf("Quantity mismatch: PO=%s, Invoice=%s", poQty, invQty),
			})
		}

		// Price change, only meaningful when both sides carry a price
		poPrice := valueOrZero(poItem.UnitPrice)
		invPrice := valueOrZero(invItem.UnitPrice)
		if poPrice.IsPositive() && invPrice.IsPositive() &&
			poPrice.Sub(invPrice).Abs().GreaterThan(priceTolerance) {
			discrepancies = append(discrepancies, Discrepancy{
				Type:         DiscrepancyPriceChange,
				Severity:     priceSeverity(poPrice, invPrice),
				ItemNumber:   itemNumber,
				Description:  description,
				POValue:      &FieldValues{UnitPrice: &poPrice},
				InvoiceValue: &FieldValues{UnitPrice: &invPrice},
				Message: fmt.Sprintf("Price change: PO=$%s, Invoice=$%s",
					poPrice.StringFixed(2), invPrice.StringFixed(2)),
			})
		}

		// Description mismatch: the pair was accepted (possibly on item-number
		// equality alone) yet the descriptions read differently. Two absent
		// descriptions cannot be compared and are skipped.
		poDesc := derefTrimmed(poItem.Description)
		invDesc := derefTrimmed(invItem.Description)
		if poDesc != "" || invDesc != "" {
			if score := c.similarity.Score(poDesc, invDesc); score < c.matcher.Threshold() {
				discrepancies = append(discrepancies, Discrepancy{
					Type:         DiscrepancyDescriptionMismatch,
					Severity:     SeverityLow,
					ItemNumber:   itemNumber,
					Description:  description,
					POValue:      &FieldValues{Description: poItem.Description},
					InvoiceValue: &FieldValues{Description: invItem.Description},
					Message:      fmt.Sprintf("Description similarity: %d%%", score),
				})
			}
		}
	}

	// PO lines never matched to an invoice line
	for _, i := range set.UnmatchedLeft {
		item := poItems[i]
		discrepancies = append(discrepancies, Discrepancy{
			Type:        DiscrepancyMissingItem,
			Severity:    SeverityHigh,
			ItemNumber:  item.ItemNumber,
			Description: item.Description,
			POValue:     &FieldValues{LineItem: &poItems[i]},
			Message:     fmt.Sprintf("Item in PO but not in Invoice: %s", derefTrimmed(item.Description)),
		})
	}

	// Invoice lines never matched to a PO line
	for _, j := range set.UnmatchedRight {
		item := invItems[j]
		discrepancies = append(discrepancies, Discrepancy{
			Type:         DiscrepancyExtraItem,
			Severity:     SeverityMedium,
			ItemNumber:   item.ItemNumber,
			Description:  item.Description,
			InvoiceValue: &FieldValues{LineItem: &invItems[j]},
			Message:      fmt.Sprintf("Item in Invoice but not in PO: %s", derefTrimmed(item.Description)),
		})
	}

	if dn != nil && len(dn.LineItems) > 0 {
		discrepancies = c.compareDeliveryQuantities(poItems, dn.LineItems, discrepancies)
	}

	return discrepancies
}

// compareDeliveryQuantities re-runs the quantity check between PO and DN
// lines. When a quantity discrepancy for the same item already exists from
// the PO/Invoice comparison, the DN figure is folded into it instead of
// producing a duplicate.
func (c *FieldComparator) compareDeliveryQuantities(poItems, dnItems document.LineItems, discrepancies []Discrepancy) []Discrepancy {
	set := c.matcher.Match(poItems, dnItems)

	for _, pair := range set.Pairs {
		poItem := poItems[pair.Left]
		dnItem := dnItems[pair.Right]

		poQty := valueOrZero(poItem.Quantity)
		dnQty := valueOrZero(dnItem.Quantity)
		if !poQty.Sub(dnQty).Abs().GreaterThan(quantityTolerance) {
			continue
		}

		if existing := findQuantityDiscrepancy(discrepancies, poItem.ItemNumber); existing != nil {
			existing.DeliveryValue = &FieldValues{Quantity: &dnQty}
			existing.Message += fmt.Sprintf(", DN=%s", dnQty)
			continue
		}

		discrepancies = append(discrepancies, Discrepancy{
			Type:          DiscrepancyQuantityMismatch,
			Severity:      quantitySeverity(poQty, dnQty),
			ItemNumber:    poItem.ItemNumber,
			Description:   poItem.Description,
			POValue:       &FieldValues{Quantity: &poQty},
			DeliveryValue: &FieldValues{Quantity: &dnQty},
			Message:       fmt.Sprintf("Quantity mismatch: PO=%s, DN=%s", poQty, dnQty),
		})
	}

	return discrepancies
}

// compareCurrency flags differing currency codes. The comparison is
// case-insensitive and only runs when both documents carry a code.
func (c *FieldComparator) compareCurrency(po, inv *document.ExtractedData, discrepancies []Discrepancy) []Discrepancy {
	if po.CurrencyCode == nil || inv.CurrencyCode == nil {
		return discrepancies
	}
	if strings.EqualFold(*po.CurrencyCode, *inv.CurrencyCode) {
		return discrepancies
	}

	description := "Currency Mismatch"
	return append(discrepancies, Discrepancy{
		Type:         DiscrepancyCurrencyMismatch,
		Severity:     SeverityHigh,
		Description:  &description,
		POValue:      &FieldValues{CurrencyCode: po.CurrencyCode},
		InvoiceValue: &FieldValues{CurrencyCode: inv.CurrencyCode},
		Message:      fmt.Sprintf("Currency mismatch: PO=%s, Invoice=%s", *po.CurrencyCode, *inv.CurrencyCode),
	})
}

// compareTaxRate flags differing tax rates beyond 0.1 percentage points
func (c *FieldComparator) compareTaxRate(po, inv *document.ExtractedData, discrepancies []Discrepancy) []Discrepancy {
	if po.TaxRate == nil || inv.TaxRate == nil {
		return discrepancies
	}

	diff := po.TaxRate.Sub(*inv.TaxRate).Abs()
	if !diff.GreaterThan(taxRateTolerance) {
		return discrepancies
	}

	severity := SeverityHigh
	if diff.GreaterThan(decimal.NewFromInt(5)) {
		severity = SeverityCritical
	}

	description := "Tax Rate Mismatch"
	return append(discrepancies, Discrepancy{
		Type:         DiscrepancyTaxRateMismatch,
		Severity:     severity,
		Description:  &description,
		POValue:      &FieldValues{TaxRate: po.TaxRate, TaxAmount: po.TaxAmount},
		InvoiceValue: &FieldValues{TaxRate: inv.TaxRate, TaxAmount: inv.TaxAmount},
		Message: fmt.Sprintf("Tax rate mismatch: PO=%s%%, Invoice=%s%%",
			po.TaxRate.StringFixed(2), inv.TaxRate.StringFixed(2)),
	})
}

// compareTaxAmount flags differing tax amounts. When either document's own
// extracted tax deviates from the tax its subtotal and rate imply, the
// difference is treated as a one-sided extraction artifact and suppressed
// rather than reported as a cross-document discrepancy.
func (c *FieldComparator) compareTaxAmount(po, inv *document.ExtractedData, discrepancies []Discrepancy) []Discrepancy {
	if po.TaxAmount == nil || inv.TaxAmount == nil {
		return discrepancies
	}

	poTax := *po.TaxAmount
	invTax := *inv.TaxAmount
	diff := poTax.Sub(invTax).Abs()

	// Tolerance: one currency unit, or 1% of the smaller tax when both are positive
	tolerance := decimal.NewFromInt(1)
	if poTax.IsPositive() && invTax.IsPositive() {
		smaller := poTax
		if invTax.LessThan(poTax) {
			smaller = invTax
		}
		if pct := smaller.Mul(decimal.NewFromFloat(0.01)); pct.GreaterThan(tolerance) {
			tolerance = pct
		}
	}

	if !diff.GreaterThan(tolerance) {
		return discrepancies
	}

	if taxLooksMiscalculated(po, tolerance) || taxLooksMiscalculated(inv, tolerance) {
		return discrepancies
	}

	severity := SeverityMedium
	switch {
	case diff.GreaterThan(decimal.NewFromInt(100)):
		severity = SeverityCritical
	case diff.GreaterThan(decimal.NewFromInt(10)):
		severity = SeverityHigh
	}

	description := "Tax Amount Mismatch"
	return append(discrepancies, Discrepancy{
		Type:         DiscrepancyTaxAmountMismatch,
		Severity:     severity,
		Description:  &description,
		POValue:      &FieldValues{TaxAmount: po.TaxAmount, TaxRate: po.TaxRate},
		InvoiceValue: &FieldValues{TaxAmount: inv.TaxAmount, TaxRate: inv.TaxRate},
		Message: fmt.Sprintf("Tax amount mismatch: PO=$%s, Invoice=$%s (difference: $%s)",
			poTax.StringFixed(2), invTax.StringFixed(2), diff.StringFixed(2)),
	})
}

// taxLooksMiscalculated reports whether the document's own extracted tax
// disagrees with the tax implied by its subtotal and rate beyond tolerance.
func taxLooksMiscalculated(data *document.ExtractedData, tolerance decimal.Decimal) bool {
	if data.TaxAmount == nil || data.Subtotal == nil || data.TaxRate == nil {
		return false
	}
	if data.Subtotal.IsZero() || data.TaxRate.IsZero() {
		return false
	}
	expected := data.Subtotal.Mul(*data.TaxRate).Div(decimal.NewFromInt(100))
	if expected.IsZero() {
		return false
	}
	return data.TaxAmount.Sub(expected).Abs().GreaterThan(tolerance)
}

// DocumentTotal computes the comparable total of a document with fallback
// priority: the extracted total amount, then subtotal plus tax, then the sum
// of the line totals. A nil document totals zero.
func DocumentTotal(data *document.ExtractedData) decimal.Decimal {
	if data == nil {
		return decimal.Zero
	}
	if data.TotalAmount != nil && !data.TotalAmount.IsZero() {
		return *data.TotalAmount
	}
	if data.Subtotal != nil && !data.Subtotal.IsZero() &&
		data.TaxAmount != nil && !data.TaxAmount.IsZero() {
		return data.Subtotal.Add(*data.TaxAmount)
	}

	total := decimal.Zero
	for _, item := range data.LineItems {
		if item.LineTotal != nil {
			total = total.Add(*item.LineTotal)
		}
	}
	return total
}

// quantitySeverity grades a quantity difference by its percentage of the
// expected (PO) quantity. A zero expected quantity cannot be graded
// proportionally and defaults to medium.
func quantitySeverity(expected, actual decimal.Decimal) Severity {
	if expected.IsZero() {
		return SeverityMedium
	}
	pct := expected.Sub(actual).Abs().Div(expected).Mul(decimal.NewFromInt(100))
	switch {
	case pct.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return SeverityCritical
	case pct.GreaterThanOrEqual(decimal.NewFromInt(20)):
		return SeverityHigh
	case pct.GreaterThanOrEqual(decimal.NewFromInt(10)):
		return SeverityMedium
	}
	return SeverityLow
}

// priceSeverity grades a unit price difference by its percentage of the
// expected (PO) price.
func priceSeverity(expected, actual decimal.Decimal) Severity {
	if expected.IsZero() {
		return SeverityMedium
	}
	pct := expected.Sub(actual).Abs().Div(expected).Mul(decimal.NewFromInt(100))
	switch {
	case pct.GreaterThanOrEqual(decimal.NewFromInt(20)):
		return SeverityCritical
	case pct.GreaterThanOrEqual(decimal.NewFromInt(10)):
		return SeverityHigh
	case pct.GreaterThanOrEqual(decimal.NewFromInt(5)):
		return SeverityMedium
	}
	return SeverityLow
}

// findQuantityDiscrepancy returns a pointer to the first quantity mismatch
// for the given item number, or nil. Item numbers compare as equal when both
// are absent.
func findQuantityDiscrepancy(discrepancies []Discrepancy, itemNumber *string) *Discrepancy {
	for i := range discrepancies {
		if discrepancies[i].Type != DiscrepancyQuantityMismatch {
			continue
		}
		if stringPtrEqual(discrepancies[i].ItemNumber, itemNumber) {
			return &discrepancies[i]
		}
	}
	return nil
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return v
		}
	}
	return nil
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
