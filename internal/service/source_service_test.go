package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

func newSourceService(sources *mockSourceRepo, payments *mockPaymentRepo, repayments *mockRepaymentRepo) *PaymentSourceService {
	return NewPaymentSourceService(passthroughTx{}, sources, payments, repayments, zap.NewNop())
}

func strp(s string) *string { return &s }

func TestSourceCreate_BankAccountRequiresFields(t *testing.T) {
	sources := &mockSourceRepo{}
	svc := newSourceService(sources, &mockPaymentRepo{}, &mockRepaymentRepo{})

	_, err := svc.Create(context.Background(), 1, &domain.CreatePaymentSourceRequest{
		Name:       "Salary Account",
		SourceType: domain.SourceTypeBankAccount,
		BankName:   strp("SBI"),
	})

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidationConflict, apperrors.KindOf(err))
	sources.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSourceCreate_CashNeedsNothingExtra(t *testing.T) {
	sources := &mockSourceRepo{}
	svc := newSourceService(sources, &mockPaymentRepo{}, &mockRepaymentRepo{})

	sources.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.PaymentSource) bool {
		return s.SourceType == domain.SourceTypeCash && s.IsActive
	})).Return(nil)

	src, err := svc.Create(context.Background(), 1, &domain.CreatePaymentSourceRequest{
		Name:       "Petty Cash",
		SourceType: domain.SourceTypeCash,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), src.UserID)
	sources.AssertExpectations(t)
}

func TestSourceCreate_LoanTypeRejected(t *testing.T) {
	sources := &mockSourceRepo{}
	svc := newSourceService(sources, &mockPaymentRepo{}, &mockRepaymentRepo{})

	_, err := svc.Create(context.Background(), 1, &domain.CreatePaymentSourceRequest{
		Name:       "Sneaky Loan",
		SourceType: domain.SourceTypeLoan,
	})

	assert.Error(t, err)
	sources.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSourceDelete_BlockedByRepayments(t *testing.T) {
	sources := &mockSourceRepo{}
	payments := &mockPaymentRepo{}
	repayments := &mockRepaymentRepo{}
	svc := newSourceService(sources, payments, repayments)

	src := &domain.PaymentSource{ID: 2, SourceType: domain.SourceTypeBankAccount}
	sources.On("GetByID", mock.Anything, int64(2)).Return(src, nil)
	payments.On("CountBySource", mock.Anything, int64(2)).Return(int64(0), nil)
	repayments.On("CountBySource", mock.Anything, int64(2)).Return(int64(5), nil)

	err := svc.Delete(context.Background(), 2)

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindDependencyConflict, apperrors.KindOf(err))
	sources.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSourceDelete_LoanSourceRejected(t *testing.T) {
	sources := &mockSourceRepo{}
	svc := newSourceService(sources, &mockPaymentRepo{}, &mockRepaymentRepo{})

	loanID := int64(9)
	src := &domain.PaymentSource{ID: 2, SourceType: domain.SourceTypeLoan, LoanID: &loanID}
	sources.On("GetByID", mock.Anything, int64(2)).Return(src, nil)

	err := svc.Delete(context.Background(), 2)

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindDependencyConflict, apperrors.KindOf(err))
	sources.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
