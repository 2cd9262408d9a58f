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
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

func newPaymentService(payments *mockPaymentRepo, invoices *mockInvoiceRepo, sources *mockSourceRepo, loans *mockLoanRepo) *PaymentService {
	return NewPaymentService(passthroughTx{}, payments, invoices, sources, loans, NewNoopCache(), zap.NewNop())
}

func bankSource(id int64) *domain.PaymentSource {
	return &domain.PaymentSource{ID: id, SourceType: domain.SourceTypeBankAccount, IsActive: true}
}

func TestPaymentCreate_ExceedsOutstanding(t *testing.T) {
	payments := &mockPaymentRepo{}
	invoices := &mockInvoiceRepo{}
	sources := &mockSourceRepo{}
	loans := &mockLoanRepo{}
	svc := newPaymentService(payments, invoices, sources, loans)

	// 300,000 invoice with 250,000 already paid: 200,000 must bounce.
	inv := &domain.Invoice{ID: 1, PurchaseID: 1, Amount: decimal.NewFromInt(300000), Status: domain.InvoiceStatusPartiallyPaid}
	invoices.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(inv, nil)
	sources.On("GetByID", mock.Anything, int64(2)).Return(bankSource(2), nil)
	payments.On("SumByInvoice", mock.Anything, int64(1), int64(0)).Return(decimal.NewFromInt(250000), nil)

	_, err := svc.Create(context.Background(), 1, &domain.CreatePaymentRequest{
		InvoiceID:   1,
		SourceID:    2,
		PaymentDate: time.Now(),
		Amount:      decimal.NewFromInt(200000),
		PaymentMode: "neft",
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBalanceExceeded)
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentCreate_SettlesInvoice(t *testing.T) {
	payments := &mockPaymentRepo{}
	invoices := &mockInvoiceRepo{}
	sources := &mockSourceRepo{}
	loans := &mockLoanRepo{}
	svc := newPaymentService(payments, invoices, sources, loans)

	inv := &domain.Invoice{ID: 1, PurchaseID: 1, Amount: decimal.NewFromInt(300000), Status: domain.InvoiceStatusPartiallyPaid}
	invoices.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(inv, nil)
	sources.On("GetByID", mock.Anything, int64(2)).Return(bankSource(2), nil)
	payments.On("SumByInvoice", mock.Anything, int64(1), int64(0)).Return(decimal.NewFromInt(250000), nil)
	payments.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Amount.Equal(decimal.NewFromInt(50000)) && p.UserID == 1
	})).Return(nil)
	invoices.On("UpdateStatus", mock.Anything, int64(1), domain.InvoiceStatusPaid).Return(nil)

	p, err := svc.Create(context.Background(), 1, &domain.CreatePaymentRequest{
		InvoiceID:   1,
		SourceID:    2,
		PaymentDate: time.Now(),
		Amount:      decimal.NewFromInt(50000),
		PaymentMode: "neft",
	})

	assert.NoError(t, err)
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(50000)))
	payments.AssertExpectations(t)
	invoices.AssertExpectations(t)
}

func TestPaymentCreate_LoanSourceHeadroom(t *testing.T) {
	payments := &mockPaymentRepo{}
	invoices := &mockInvoiceRepo{}
	sources := &mockSourceRepo{}
	loans := &mockLoanRepo{}
	svc := newPaymentService(payments, invoices, sources, loans)

	inv := &domain.Invoice{ID: 1, PurchaseID: 1, Amount: decimal.NewFromInt(500000), Status: domain.InvoiceStatusPending}
	loanID := int64(9)
	src := &domain.PaymentSource{ID: 2, SourceType: domain.SourceTypeLoan, IsActive: true, LoanID: &loanID}
	loan := &domain.Loan{ID: 9, SanctionAmount: decimal.NewFromInt(1000000)}

	invoices.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(inv, nil)
	sources.On("GetByID", mock.Anything, int64(2)).Return(src, nil)
	payments.On("SumByInvoice", mock.Anything, int64(1), int64(0)).Return(decimal.Zero, nil)
	loans.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(loan, nil)
	payments.On("SumBySource", mock.Anything, int64(2), int64(0)).Return(decimal.NewFromInt(900000), nil)

	_, err := svc.Create(context.Background(), 1, &domain.CreatePaymentRequest{
		InvoiceID:   1,
		SourceID:    2,
		PaymentDate: time.Now(),
		Amount:      decimal.NewFromInt(150000),
		PaymentMode: "neft",
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBalanceExceeded)
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentCreate_CancelledInvoiceRejected(t *testing.T) {
	payments := &mockPaymentRepo{}
	invoices := &mockInvoiceRepo{}
	sources := &mockSourceRepo{}
	loans := &mockLoanRepo{}
	svc := newPaymentService(payments, invoices, sources, loans)

	inv := &domain.Invoice{ID: 1, PurchaseID: 1, Amount: decimal.NewFromInt(500000), Status: domain.InvoiceStatusCancelled}
	invoices.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(inv, nil)

	_, err := svc.Create(context.Background(), 1, &domain.CreatePaymentRequest{
		InvoiceID:   1,
		SourceID:    2,
		PaymentDate: time.Now(),
		Amount:      decimal.NewFromInt(1000),
		PaymentMode: "neft",
	})

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidationConflict, apperrors.KindOf(err))
}

func TestPaymentUpdate_ExcludesOwnAmount(t *testing.T) {
	payments := &mockPaymentRepo{}
	invoices := &mockInvoiceRepo{}
	sources := &mockSourceRepo{}
	loans := &mockLoanRepo{}
	svc := newPaymentService(payments, invoices, sources, loans)

	// 300,000 invoice fully covered by this payment alone. Raising it
	// to 300,000 from 250,000 passes only because the sum excludes the
	// payment's own prior amount.
	p := &domain.Payment{ID: 5, InvoiceID: 1, SourceID: 2, Amount: decimal.NewFromInt(250000)}
	inv := &domain.Invoice{ID: 1, PurchaseID: 1, Amount: decimal.NewFromInt(300000), Status: domain.InvoiceStatusPartiallyPaid}

	payments.On("GetByID", mock.Anything, int64(5)).Return(p, nil)
	invoices.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(inv, nil)
	sources.On("GetByID", mock.Anything, int64(2)).Return(bankSource(2), nil)
	payments.On("SumByInvoice", mock.Anything, int64(1), int64(5)).Return(decimal.Zero, nil)
	payments.On("Update", mock.Anything, mock.Anything).Return(nil)
	invoices.On("UpdateStatus", mock.Anything, int64(1), domain.InvoiceStatusPaid).Return(nil)

	amount := decimal.NewFromInt(300000)
	got, err := svc.Update(context.Background(), 5, &domain.UpdatePaymentRequest{Amount: &amount})

	assert.NoError(t, err)
	assert.True(t, got.Amount.Equal(amount))
	payments.AssertExpectations(t)
	invoices.AssertExpectations(t)
}

func TestPaymentDelete_RederivesInvoiceStatus(t *testing.T) {
	payments := &mockPaymentRepo{}
	invoices := &mockInvoiceRepo{}
	sources := &mockSourceRepo{}
	loans := &mockLoanRepo{}
	svc := newPaymentService(payments, invoices, sources, loans)

	p := &domain.Payment{ID: 5, InvoiceID: 1, SourceID: 2, Amount: decimal.NewFromInt(300000)}
	inv := &domain.Invoice{ID: 1, PurchaseID: 1, Amount: decimal.NewFromInt(300000), Status: domain.InvoiceStatusPaid}

	payments.On("GetByID", mock.Anything, int64(5)).Return(p, nil)
	invoices.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(inv, nil)
	payments.On("Delete", mock.Anything, int64(5)).Return(nil)
	payments.On("SumByInvoice", mock.Anything, int64(1), int64(0)).Return(decimal.Zero, nil)
	invoices.On("UpdateStatus", mock.Anything, int64(1), domain.InvoiceStatusPending).Return(nil)
	sources.On("GetByID", mock.Anything, int64(2)).Return(bankSource(2), nil)

	err := svc.Delete(context.Background(), 5)

	assert.NoError(t, err)
	payments.AssertExpectations(t)
	invoices.AssertExpectations(t)
}
