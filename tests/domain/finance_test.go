package domain_test

import (
	"testing"

	"github.com/nordvik-interiors/ops-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestSelectionValue(t *testing.T) {
	items := []domain.SelectionItem{
		{Name: "Dining chair", Quantity: 2, UnitPrice: floatPtr(2450)},
		{Name: "Sofa", Quantity: 1, UnitPrice: floatPtr(10000)},
	}
	assert.Equal(t, 14900.0, domain.SelectionValue(items))
}

func TestSelectionValueNilPrice(t *testing.T) {
	items := []domain.SelectionItem{
		{Name: "Custom shelving", Quantity: 3, UnitPrice: nil},
		{Name: "Lamp", Quantity: 1, UnitPrice: floatPtr(900)},
	}
	assert.Equal(t, 900.0, domain.SelectionValue(items))
	assert.Equal(t, 0.0, domain.SelectionValue(nil))
}

func TestSumPayments(t *testing.T) {
	totals := domain.SumPayments([]domain.Payment{
		{Type: domain.PaymentTypeDeposit, Status: domain.PaymentStatusPaid, Amount: 2000},
		{Type: domain.PaymentTypeDeposit, Status: domain.PaymentStatusPaid, Amount: 1000},
		{Type: domain.PaymentTypeProduction, Status: domain.PaymentStatusPaid, Amount: 7000},
		{Type: domain.PaymentTypeDelivery, Status: domain.PaymentStatusPaid, Amount: 1000},
		// Pending payments never count
		{Type: domain.PaymentTypeProduction, Status: domain.PaymentStatusPending, Amount: 9999},
	})

	assert.Equal(t, 3000.0, totals.DepositPaid)
	assert.Equal(t, 7000.0, totals.ProductionPaid)
	assert.Equal(t, 1000.0, totals.FinalPaid)
	assert.Equal(t, 11000.0, totals.Total())
}

func TestEffectiveValue(t *testing.T) {
	assert.Equal(t, 12000.0, domain.EffectiveValue(floatPtr(12000), 14900))
	assert.Equal(t, 14900.0, domain.EffectiveValue(nil, 14900))

	// A zero quote value is still an explicit override
	assert.Equal(t, 0.0, domain.EffectiveValue(floatPtr(0), 14900))
}

func TestTotalDue(t *testing.T) {
	assert.Equal(t, 9000.0, domain.TotalDue(floatPtr(12000), 14900, 3000))
	assert.Equal(t, 14900.0, domain.TotalDue(nil, 14900, 0))
}

func TestPaymentPercentage(t *testing.T) {
	assert.Equal(t, 25, domain.PaymentPercentage(floatPtr(12000), 0, 3000))
	assert.Equal(t, 0, domain.PaymentPercentage(nil, 0, 500))
	assert.Equal(t, 33, domain.PaymentPercentage(nil, 15000, 5000))
	assert.Equal(t, 100, domain.PaymentPercentage(nil, 10000, 10000))
}

func TestMilestoneAmounts(t *testing.T) {
	plan := domain.MilestoneAmounts(14900)
	assert.Equal(t, 2980.0, plan.Deposit)
	assert.Equal(t, 10430.0, plan.Production)
	assert.Equal(t, 1490.0, plan.Final)
}

func TestQuoteTotal(t *testing.T) {
	items := []domain.QuoteItem{
		{Name: "Dining chair", Quantity: 2, UnitPrice: 2450},
		{Name: "Sofa", Quantity: 1, UnitPrice: 10000},
	}
	subtotal, total := domain.QuoteTotal(items, 900)
	assert.Equal(t, 14900.0, subtotal)
	assert.Equal(t, 14000.0, total)
}
