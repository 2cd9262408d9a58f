package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

func newPurchaseService(purchases *mockPurchaseRepo, props *mockPropertyRepo, invoices *mockInvoiceRepo, loans *mockLoanRepo, cache Cache) *PurchaseService {
	return NewPurchaseService(passthroughTx{}, purchases, props, invoices, loans, cache, zap.NewNop())
}

func TestPurchaseDelete_BlockedByInvoices(t *testing.T) {
	purchases := &mockPurchaseRepo{}
	props := &mockPropertyRepo{}
	invoices := &mockInvoiceRepo{}
	loans := &mockLoanRepo{}
	svc := newPurchaseService(purchases, props, invoices, loans, NewNoopCache())

	purchases.On("GetByID", mock.Anything, int64(1)).Return(&domain.Purchase{ID: 1}, nil)
	invoices.On("CountByPurchase", mock.Anything, int64(1)).Return(int64(2), nil)

	err := svc.Delete(context.Background(), 1)

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindDependencyConflict, apperrors.KindOf(err))
	purchases.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPurchaseDelete_BlockedByLoans(t *testing.T) {
	purchases := &mockPurchaseRepo{}
	props := &mockPropertyRepo{}
	invoices := &mockInvoiceRepo{}
	loans := &mockLoanRepo{}
	svc := newPurchaseService(purchases, props, invoices, loans, NewNoopCache())

	purchases.On("GetByID", mock.Anything, int64(1)).Return(&domain.Purchase{ID: 1}, nil)
	invoices.On("CountByPurchase", mock.Anything, int64(1)).Return(int64(0), nil)
	loans.On("CountByPurchase", mock.Anything, int64(1)).Return(int64(1), nil)

	err := svc.Delete(context.Background(), 1)

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindDependencyConflict, apperrors.KindOf(err))
	purchases.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestPurchaseUpdate_ShrinkBelowInvoicedRejected(t *testing.T) {
	purchases := &mockPurchaseRepo{}
	props := &mockPropertyRepo{}
	invoices := &mockInvoiceRepo{}
	loans := &mockLoanRepo{}
	svc := newPurchaseService(purchases, props, invoices, loans, NewNoopCache())

	p := &domain.Purchase{ID: 1, BaseCost: decimal.NewFromInt(5000000)}
	purchases.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(p, nil)
	invoices.On("SumAmountByPurchase", mock.Anything, int64(1), int64(0)).Return(decimal.NewFromInt(4500000), nil)

	base := decimal.NewFromInt(4000000)
	_, err := svc.Update(context.Background(), 1, &domain.UpdatePurchaseRequest{BaseCost: &base})

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBalanceExceeded)
	purchases.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPurchaseUpdate_EmptyPatchIsNoOp(t *testing.T) {
	purchases := &mockPurchaseRepo{}
	props := &mockPropertyRepo{}
	invoices := &mockInvoiceRepo{}
	loans := &mockLoanRepo{}
	svc := newPurchaseService(purchases, props, invoices, loans, NewNoopCache())

	p := &domain.Purchase{ID: 1, BaseCost: decimal.NewFromInt(5000000)}
	purchases.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(p, nil)
	invoices.On("SumAmountByPurchase", mock.Anything, int64(1), int64(0)).Return(decimal.Zero, nil)
	loans.On("List", mock.Anything, mock.Anything).Return([]*domain.Loan{}, nil)
	purchases.On("Update", mock.Anything, mock.MatchedBy(func(got *domain.Purchase) bool {
		return got.BaseCost.Equal(decimal.NewFromInt(5000000))
	})).Return(nil)

	got, err := svc.Update(context.Background(), 1, &domain.UpdatePurchaseRequest{})

	assert.NoError(t, err)
	assert.True(t, got.TotalSaleCost.Equal(decimal.NewFromInt(5000000)))
	purchases.AssertExpectations(t)
}

func TestPurchaseUpdate_ShrinkBelowLoanSanctionRejected(t *testing.T) {
	purchases := &mockPurchaseRepo{}
	props := &mockPropertyRepo{}
	invoices := &mockInvoiceRepo{}
	loans := &mockLoanRepo{}
	svc := newPurchaseService(purchases, props, invoices, loans, NewNoopCache())

	p := &domain.Purchase{ID: 1, BaseCost: decimal.NewFromInt(5000000)}
	purchases.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(p, nil)
	invoices.On("SumAmountByPurchase", mock.Anything, int64(1), int64(0)).Return(decimal.Zero, nil)
	loans.On("List", mock.Anything, mock.Anything).Return([]*domain.Loan{
		{ID: 7, SanctionAmount: decimal.NewFromInt(4500000)},
	}, nil)

	base := decimal.NewFromInt(4000000)
	_, err := svc.Update(context.Background(), 1, &domain.UpdatePurchaseRequest{BaseCost: &base})

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBalanceExceeded)
	purchases.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPurchaseUpdate_InvalidatesAcquisitionSummary(t *testing.T) {
	purchases := &mockPurchaseRepo{}
	props := &mockPropertyRepo{}
	invoices := &mockInvoiceRepo{}
	loans := &mockLoanRepo{}
	cache := &spyCache{}
	svc := newPurchaseService(purchases, props, invoices, loans, cache)

	p := &domain.Purchase{ID: 1, BaseCost: decimal.NewFromInt(1000000)}
	purchases.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(p, nil)
	invoices.On("SumAmountByPurchase", mock.Anything, int64(1), int64(0)).Return(decimal.Zero, nil)
	loans.On("List", mock.Anything, mock.Anything).Return([]*domain.Loan{}, nil)
	purchases.On("Update", mock.Anything, mock.Anything).Return(nil)

	base := decimal.NewFromInt(2000000)
	_, err := svc.Update(context.Background(), 1, &domain.UpdatePurchaseRequest{BaseCost: &base})

	assert.NoError(t, err)
	assert.Contains(t, cache.deleted, acquisitionSummaryKey(1))
}

func TestPropertyUpdate_RenameInvalidatesReportSummaries(t *testing.T) {
	props := &mockPropertyRepo{}
	purchases := &mockPurchaseRepo{}
	loans := &mockLoanRepo{}
	cache := &spyCache{}
	svc := NewPropertyService(passthroughTx{}, props, purchases, loans, cache, zap.NewNop())

	props.On("GetByID", mock.Anything, int64(1)).Return(&domain.Property{
		ID:          1,
		Name:        "Sunrise Towers 402",
		InitialRate: decimal.NewFromInt(4000),
		CurrentRate: decimal.NewFromInt(4500),
	}, nil)
	props.On("Update", mock.Anything, mock.Anything).Return(nil)
	purchases.On("List", mock.Anything, mock.Anything).Return([]*domain.Purchase{{ID: 3}}, nil)
	loans.On("List", mock.Anything, mock.Anything).Return([]*domain.Loan{{ID: 7}}, nil)

	name := "Sunrise Towers 402A"
	_, err := svc.Update(context.Background(), 1, &domain.UpdatePropertyRequest{Name: &name})

	assert.NoError(t, err)
	assert.Contains(t, cache.deleted, acquisitionSummaryKey(3))
	assert.Contains(t, cache.deleted, repaymentSummaryKey(7))
}

func TestPropertyDelete_BlockedByPurchases(t *testing.T) {
	props := &mockPropertyRepo{}
	purchases := &mockPurchaseRepo{}
	svc := NewPropertyService(passthroughTx{}, props, purchases, &mockLoanRepo{}, NewNoopCache(), zap.NewNop())

	props.On("GetByID", mock.Anything, int64(1)).Return(&domain.Property{ID: 1}, nil)
	purchases.On("CountByProperty", mock.Anything, int64(1)).Return(int64(1), nil)

	err := svc.Delete(context.Background(), 1)

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindDependencyConflict, apperrors.KindOf(err))
	props.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
