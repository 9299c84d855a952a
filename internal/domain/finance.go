package domain

import "math"

// PaymentTotals holds the paid amounts per milestone type
type PaymentTotals struct {
	DepositPaid    float64
	ProductionPaid float64
	FinalPaid      float64
}

// Total returns the sum of all three milestone amounts
func (pt PaymentTotals) Total() float64 {
	return pt.DepositPaid + pt.ProductionPaid + pt.FinalPaid
}

// MilestonePlan holds the informational three-stage payment split.
// These are targets shown alongside the actual paid amounts, not
// enforced constraints.
type MilestonePlan struct {
	Deposit    float64
	Production float64
	Final      float64
}

// SelectionValue computes the total value of a selection. A nil unit
// price counts as zero; totals are not clamped.
func SelectionValue(items []SelectionItem) float64 {
	var total float64
	for _, item := range items {
		price := 0.0
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}
		total += float64(item.Quantity) * price
	}
	return total
}

// SumPayments folds payment records into per-milestone paid totals.
// Only payments with status paid are counted; delivery payments settle
// the final milestone.
func SumPayments(payments []Payment) PaymentTotals {
	var totals PaymentTotals
	for _, p := range payments {
		if p.Status != PaymentStatusPaid {
			continue
		}
		switch p.Type {
		case PaymentTypeDeposit:
			totals.DepositPaid += p.Amount
		case PaymentTypeProduction:
			totals.ProductionPaid += p.Amount
		case PaymentTypeDelivery:
			totals.FinalPaid += p.Amount
		}
	}
	return totals
}

// EffectiveValue returns the quote value when one is set, otherwise the
// selection value. This is the single definition of the override rule
// used everywhere a deal's value is needed.
func EffectiveValue(quoteValue *float64, selectionValue float64) float64 {
	if quoteValue != nil {
		return *quoteValue
	}
	return selectionValue
}

// TotalDue computes the outstanding amount for a client
func TotalDue(quoteValue *float64, selectionValue, totalPaid float64) float64 {
	return EffectiveValue(quoteValue, selectionValue) - totalPaid
}

// PaymentPercentage computes how much of the effective value has been
// paid, rounded to the nearest whole percent. Zero when the effective
// value is zero.
func PaymentPercentage(quoteValue *float64, selectionValue, totalPaid float64) int {
	value := EffectiveValue(quoteValue, selectionValue)
	if value == 0 {
		return 0
	}
	return int(math.Round(totalPaid / value * 100))
}

// MilestoneAmounts splits a total into the standard 20/70/10 payment
// plan, each stage rounded to the nearest whole amount
func MilestoneAmounts(total float64) MilestonePlan {
	return MilestonePlan{
		Deposit:    math.Round(total * 0.20),
		Production: math.Round(total * 0.70),
		Final:      math.Round(total * 0.10),
	}
}

// QuoteTotal computes subtotal and total from quote line items and a
// discount amount
func QuoteTotal(items []QuoteItem, discountAmount float64) (subtotal, total float64) {
	for _, item := range items {
		subtotal += float64(item.Quantity) * item.UnitPrice
	}
	return subtotal, subtotal - discountAmount
}
