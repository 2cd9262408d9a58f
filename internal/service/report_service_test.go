package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
)

func money(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestBuildRepaymentDetail_RunningSums(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

	rows := []*domain.RepaymentLedgerRow{
		{RepaymentID: 1, PaymentDate: day(1), PrincipalAmount: money(40000), InterestAmount: money(12000)},
		{RepaymentID: 2, PaymentDate: day(1), PrincipalAmount: money(10000), InterestAmount: money(3000), OtherFees: money(500)},
		{RepaymentID: 3, PaymentDate: day(15), PrincipalAmount: money(50000), InterestAmount: money(11000), Penalties: money(250)},
	}

	detail := BuildRepaymentDetail(rows, money(2000000))

	assert.Len(t, detail, 3)

	assert.True(t, detail[0].TotalPayment.Equal(money(52000)))
	assert.True(t, detail[0].TotalPrincipalPaid.Equal(money(40000)))
	assert.True(t, detail[0].TotalPaid.Equal(money(52000)))
	assert.True(t, detail[0].PrincipalBalance.Equal(money(1960000)))

	assert.True(t, detail[1].TotalPrincipalPaid.Equal(money(50000)))
	assert.True(t, detail[1].TotalPaid.Equal(money(65500)))
	assert.True(t, detail[1].PrincipalBalance.Equal(money(1950000)))

	assert.True(t, detail[2].TotalPrincipalPaid.Equal(money(100000)))
	assert.True(t, detail[2].TotalPaid.Equal(money(126750)))
	assert.True(t, detail[2].PrincipalBalance.Equal(money(1900000)))
}

func TestBuildRepaymentDetail_Empty(t *testing.T) {
	detail := BuildRepaymentDetail(nil, money(500000))
	assert.Empty(t, detail)
}

func TestSummarizeAcquisition(t *testing.T) {
	purchase := &domain.Purchase{
		ID:           1,
		PropertyName: "Sunrise Towers 402",
		BaseCost:     money(5000000),
		GST:          decimal.NewNullDecimal(money(250000)),
	}
	purchase.ComputeDerived()

	entries := []*domain.AcquisitionEntry{
		{EntryType: domain.EntryTypeLoanRepayment, Principal: money(40000), Interest: money(12000), Others: money(750), Payment: money(52750)},
		{EntryType: domain.EntryTypeLoanRepayment, Principal: money(60000), Interest: money(11000), Payment: money(71000)},
		{EntryType: domain.EntryTypeDirectPayment, Principal: money(500000), Payment: money(500000)},
	}

	s := SummarizeAcquisition(purchase, entries)

	assert.True(t, s.TotalLoanPrincipal.Equal(money(100000)))
	assert.True(t, s.TotalLoanInterest.Equal(money(23000)))
	assert.True(t, s.TotalLoanOthers.Equal(money(750)))
	assert.True(t, s.TotalLoanPayment.Equal(money(123750)))
	assert.True(t, s.TotalBuilderPrincipal.Equal(money(500000)))
	assert.True(t, s.TotalPrincipalPayment.Equal(money(600000)))
	assert.True(t, s.TotalPayment.Equal(money(623750)))
	assert.True(t, s.TotalSaleCost.Equal(money(5250000)))
	assert.True(t, s.RemainingBalance.Equal(money(4650000)))
	// 600000 / 5250000 * 100 = 11.4285... rounded to 11.43
	assert.Equal(t, "11.43", s.PercentComplete.StringFixed(2))
}

func TestSummarizeAcquisition_NoEntries(t *testing.T) {
	purchase := &domain.Purchase{ID: 1, BaseCost: money(1000000)}
	purchase.ComputeDerived()

	s := SummarizeAcquisition(purchase, nil)

	assert.True(t, s.TotalPayment.IsZero())
	assert.True(t, s.RemainingBalance.Equal(money(1000000)))
	assert.True(t, s.PercentComplete.IsZero())
}

func TestSummarizeRepayments(t *testing.T) {
	loan := &domain.Loan{ID: 9, Name: "Home Loan", PropertyName: "Sunrise Towers 402", SanctionAmount: money(3000000)}
	day := func(d int) time.Time { return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC) }

	rows := []*domain.RepaymentLedgerRow{
		{PaymentDate: day(1), PrincipalAmount: money(40000), InterestAmount: money(12000), OtherFees: money(500)},
		{PaymentDate: day(30), PrincipalAmount: money(41000), InterestAmount: money(11500), Penalties: money(200)},
	}

	s := SummarizeRepayments(loan, rows, money(2500000))

	assert.True(t, s.DisbursedAmount.Equal(money(2500000)))
	assert.True(t, s.TotalPrincipalPaid.Equal(money(81000)))
	assert.True(t, s.TotalInterestPaid.Equal(money(23500)))
	assert.True(t, s.TotalOtherFees.Equal(money(500)))
	assert.True(t, s.TotalPenalties.Equal(money(200)))
	assert.True(t, s.TotalAmountPaid.Equal(money(105200)))
	assert.Equal(t, 2, s.TotalPayments)
	assert.NotNil(t, s.LastRepaymentDate)
	assert.Equal(t, day(30), *s.LastRepaymentDate)
	assert.True(t, s.PrincipalBalance.Equal(money(2419000)))
}

func TestSweepOverdueInvoices(t *testing.T) {
	reports := &mockReportRepo{}
	purchases := &mockPurchaseRepo{}
	loans := &mockLoanRepo{}
	payments := &mockPaymentRepo{}
	invoices := &mockInvoiceRepo{}
	svc := NewReportService(reports, purchases, loans, payments, invoices, NewNoopCache(), time.Minute, zap.NewNop())

	asOf := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	due := []*domain.Invoice{{ID: 1}, {ID: 4}}
	reports.On("OutstandingInvoicesPastDue", mock.Anything, asOf).Return(due, nil)
	invoices.On("UpdateStatus", mock.Anything, int64(1), domain.InvoiceStatusOverdue).Return(nil)
	invoices.On("UpdateStatus", mock.Anything, int64(4), domain.InvoiceStatusOverdue).Return(nil)

	n, err := svc.SweepOverdueInvoices(context.Background(), asOf)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	invoices.AssertExpectations(t)
}
