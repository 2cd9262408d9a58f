package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

func newLoanService(loans *mockLoanRepo, purchases *mockPurchaseRepo, sources *mockSourceRepo, payments *mockPaymentRepo, repayments *mockRepaymentRepo) *LoanService {
	return NewLoanService(passthroughTx{}, loans, purchases, sources, payments, repayments, NewNoopCache(), zap.NewNop())
}

func TestLoanCreate_ExceedsTotalCost(t *testing.T) {
	loans := &mockLoanRepo{}
	purchases := &mockPurchaseRepo{}
	sources := &mockSourceRepo{}
	payments := &mockPaymentRepo{}
	repayments := &mockRepaymentRepo{}
	svc := newLoanService(loans, purchases, sources, payments, repayments)

	// Total cost 3,000,000; a 4,000,000 sanction must bounce before any
	// row is written.
	purchase := &domain.Purchase{ID: 1, BaseCost: decimal.NewFromInt(3000000)}
	purchases.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(purchase, nil)

	_, err := svc.Create(context.Background(), 1, &domain.CreateLoanRequest{
		PurchaseID:     1,
		Name:           "Home Loan",
		Institution:    "HDFC",
		SanctionDate:   time.Now(),
		SanctionAmount: decimal.NewFromInt(4000000),
		InterestRate:   decimal.NewFromFloat(8.5),
		TenureMonths:   240,
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBalanceExceeded)
	loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	sources.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoanCreate_CascadesPaymentSource(t *testing.T) {
	loans := &mockLoanRepo{}
	purchases := &mockPurchaseRepo{}
	sources := &mockSourceRepo{}
	payments := &mockPaymentRepo{}
	repayments := &mockRepaymentRepo{}
	svc := newLoanService(loans, purchases, sources, payments, repayments)

	purchase := &domain.Purchase{ID: 1, BaseCost: decimal.NewFromInt(5000000), PropertyName: "Sunrise Towers 402"}
	purchases.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(purchase, nil)
	loans.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
		l.ID = 42
		return l.IsActive && l.SanctionAmount.Equal(decimal.NewFromInt(3000000))
	})).Return(nil)
	sources.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.PaymentSource) bool {
		return s.SourceType == domain.SourceTypeLoan &&
			s.Name == "Loan: Home Loan" &&
			s.LoanID != nil && *s.LoanID == 42 &&
			s.Lender != nil && *s.Lender == "HDFC"
	})).Return(nil)

	l, err := svc.Create(context.Background(), 1, &domain.CreateLoanRequest{
		PurchaseID:     1,
		Name:           "Home Loan",
		Institution:    "HDFC",
		SanctionDate:   time.Now(),
		SanctionAmount: decimal.NewFromInt(3000000),
		InterestRate:   decimal.NewFromFloat(8.5),
		TenureMonths:   240,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Sunrise Towers 402", l.PropertyName)
	loans.AssertExpectations(t)
	sources.AssertExpectations(t)
}

func TestLoanCreate_SourceFailureAbortsCascade(t *testing.T) {
	loans := &mockLoanRepo{}
	purchases := &mockPurchaseRepo{}
	sources := &mockSourceRepo{}
	payments := &mockPaymentRepo{}
	repayments := &mockRepaymentRepo{}
	svc := newLoanService(loans, purchases, sources, payments, repayments)

	purchase := &domain.Purchase{ID: 1, BaseCost: decimal.NewFromInt(5000000)}
	purchases.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(purchase, nil)
	loans.On("Create", mock.Anything, mock.Anything).Return(nil)
	sourceErr := errors.New("insert failed")
	sources.On("Create", mock.Anything, mock.Anything).Return(sourceErr)

	l, err := svc.Create(context.Background(), 1, &domain.CreateLoanRequest{
		PurchaseID:     1,
		Name:           "Home Loan",
		Institution:    "HDFC",
		SanctionDate:   time.Now(),
		SanctionAmount: decimal.NewFromInt(3000000),
		InterestRate:   decimal.NewFromFloat(8.5),
		TenureMonths:   240,
	})

	// The error must surface out of the transaction so the loan insert
	// rolls back with it.
	assert.Nil(t, l)
	assert.Error(t, err)
	assert.ErrorIs(t, err, sourceErr)
	assert.Equal(t, apperrors.KindPersistenceFailure, apperrors.KindOf(err))
}

func TestLoanUpdate_SanctionBelowDisbursed(t *testing.T) {
	loans := &mockLoanRepo{}
	purchases := &mockPurchaseRepo{}
	sources := &mockSourceRepo{}
	payments := &mockPaymentRepo{}
	repayments := &mockRepaymentRepo{}
	svc := newLoanService(loans, purchases, sources, payments, repayments)

	loan := &domain.Loan{ID: 9, PurchaseID: 1, SanctionAmount: decimal.NewFromInt(3000000)}
	purchase := &domain.Purchase{ID: 1, BaseCost: decimal.NewFromInt(5000000)}

	loans.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(loan, nil)
	payments.On("SumByLoan", mock.Anything, int64(9)).Return(decimal.NewFromInt(2500000), nil)
	purchases.On("GetByIDForUpdate", mock.Anything, int64(1)).Return(purchase, nil)

	amount := decimal.NewFromInt(2000000)
	_, err := svc.Update(context.Background(), 9, &domain.UpdateLoanRequest{SanctionAmount: &amount})

	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBalanceExceeded)
	loans.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestLoanUpdate_PropagatesToSource(t *testing.T) {
	loans := &mockLoanRepo{}
	purchases := &mockPurchaseRepo{}
	sources := &mockSourceRepo{}
	payments := &mockPaymentRepo{}
	repayments := &mockRepaymentRepo{}
	svc := newLoanService(loans, purchases, sources, payments, repayments)

	loanID := int64(9)
	loan := &domain.Loan{ID: 9, PurchaseID: 1, Name: "Home Loan", Institution: "HDFC", IsActive: true}
	src := &domain.PaymentSource{ID: 4, SourceType: domain.SourceTypeLoan, LoanID: &loanID, IsActive: true}

	loans.On("GetByIDForUpdate", mock.Anything, int64(9)).Return(loan, nil)
	payments.On("SumByLoan", mock.Anything, int64(9)).Return(decimal.Zero, nil)
	loans.On("Update", mock.Anything, mock.Anything).Return(nil)
	sources.On("GetByLoanID", mock.Anything, int64(9)).Return(src, nil)
	sources.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.PaymentSource) bool {
		return s.Name == "Loan: Top-Up Loan" && s.Lender != nil && *s.Lender == "ICICI" && !s.IsActive
	})).Return(nil)

	name := "Top-Up Loan"
	institution := "ICICI"
	inactive := false
	_, err := svc.Update(context.Background(), 9, &domain.UpdateLoanRequest{
		Name:        &name,
		Institution: &institution,
		IsActive:    &inactive,
	})

	assert.NoError(t, err)
	sources.AssertExpectations(t)
}

func TestLoanDelete_BlockedByRepayments(t *testing.T) {
	loans := &mockLoanRepo{}
	purchases := &mockPurchaseRepo{}
	sources := &mockSourceRepo{}
	payments := &mockPaymentRepo{}
	repayments := &mockRepaymentRepo{}
	svc := newLoanService(loans, purchases, sources, payments, repayments)

	loan := &domain.Loan{ID: 9, PurchaseID: 1}
	loans.On("GetByID", mock.Anything, int64(9)).Return(loan, nil)
	repayments.On("CountByLoan", mock.Anything, int64(9)).Return(int64(3), nil)

	err := svc.Delete(context.Background(), 9)

	assert.Error(t, err)
	assert.Equal(t, apperrors.KindDependencyConflict, apperrors.KindOf(err))
	loans.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestLoanDelete_RemovesLinkedSource(t *testing.T) {
	loans := &mockLoanRepo{}
	purchases := &mockPurchaseRepo{}
	sources := &mockSourceRepo{}
	payments := &mockPaymentRepo{}
	repayments := &mockRepaymentRepo{}
	svc := newLoanService(loans, purchases, sources, payments, repayments)

	loanID := int64(9)
	loan := &domain.Loan{ID: 9, PurchaseID: 1}
	src := &domain.PaymentSource{ID: 4, SourceType: domain.SourceTypeLoan, LoanID: &loanID}

	loans.On("GetByID", mock.Anything, int64(9)).Return(loan, nil)
	repayments.On("CountByLoan", mock.Anything, int64(9)).Return(int64(0), nil)
	sources.On("GetByLoanID", mock.Anything, int64(9)).Return(src, nil)
	payments.On("CountBySource", mock.Anything, int64(4)).Return(int64(0), nil)
	sources.On("Delete", mock.Anything, int64(4)).Return(nil)
	loans.On("Delete", mock.Anything, int64(9)).Return(nil)

	err := svc.Delete(context.Background(), 9)

	assert.NoError(t, err)
	loans.AssertExpectations(t)
	sources.AssertExpectations(t)
}
