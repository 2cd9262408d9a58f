package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/propstack/acquisition-engine/internal/domain"
)

// passthroughTx satisfies Transactor without a database.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// spyCache records deleted keys so invalidation can be asserted.
type spyCache struct {
	noopCache
	deleted []string
}

func (c *spyCache) Del(ctx context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return nil
}

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

type mockPropertyRepo struct{ mock.Mock }

func (m *mockPropertyRepo) Create(ctx context.Context, p *domain.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyRepo) List(ctx context.Context, limit, offset int) ([]*domain.Property, error) {
	args := m.Called(ctx, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *domain.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockPurchaseRepo struct{ mock.Mock }

func (m *mockPurchaseRepo) Create(ctx context.Context, p *domain.Purchase) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPurchaseRepo) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Purchase), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPurchaseRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Purchase, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Purchase), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPurchaseRepo) List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Purchase), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPurchaseRepo) Update(ctx context.Context, p *domain.Purchase) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPurchaseRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPurchaseRepo) CountByProperty(ctx context.Context, propertyID int64) (int64, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

type mockInvoiceRepo struct{ mock.Mock }

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceRepo) List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInvoiceRepo) SumAmountByPurchase(ctx context.Context, purchaseID, excludeID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, purchaseID, excludeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockInvoiceRepo) NumberExists(ctx context.Context, purchaseID int64, number string, excludeID int64) (bool, error) {
	args := m.Called(ctx, purchaseID, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) CountByPurchase(ctx context.Context, purchaseID int64) (int64, error) {
	args := m.Called(ctx, purchaseID)
	return args.Get(0).(int64), args.Error(1)
}

type mockLoanRepo struct{ mock.Mock }

func (m *mockLoanRepo) Create(ctx context.Context, l *domain.Loan) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLoanRepo) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Loan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLoanRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Loan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLoanRepo) List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Loan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLoanRepo) Update(ctx context.Context, l *domain.Loan) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLoanRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLoanRepo) CountByPurchase(ctx context.Context, purchaseID int64) (int64, error) {
	args := m.Called(ctx, purchaseID)
	return args.Get(0).(int64), args.Error(1)
}

type mockSourceRepo struct{ mock.Mock }

func (m *mockSourceRepo) Create(ctx context.Context, s *domain.PaymentSource) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSourceRepo) GetByID(ctx context.Context, id int64) (*domain.PaymentSource, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.PaymentSource), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSourceRepo) GetByLoanID(ctx context.Context, loanID int64) (*domain.PaymentSource, error) {
	args := m.Called(ctx, loanID)
	if v := args.Get(0); v != nil {
		return v.(*domain.PaymentSource), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSourceRepo) List(ctx context.Context, userID int64) ([]*domain.PaymentSource, error) {
	args := m.Called(ctx, userID)
	if v := args.Get(0); v != nil {
		return v.([]*domain.PaymentSource), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSourceRepo) Update(ctx context.Context, s *domain.PaymentSource) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSourceRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockPaymentRepo struct{ mock.Mock }

func (m *mockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentRepo) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentRepo) Update(ctx context.Context, p *domain.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPaymentRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPaymentRepo) SumByInvoice(ctx context.Context, invoiceID, excludeID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID, excludeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockPaymentRepo) SumBySource(ctx context.Context, sourceID, excludeID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, sourceID, excludeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockPaymentRepo) SumByLoan(ctx context.Context, loanID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockPaymentRepo) CountByInvoice(ctx context.Context, invoiceID int64) (int64, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPaymentRepo) CountBySource(ctx context.Context, sourceID int64) (int64, error) {
	args := m.Called(ctx, sourceID)
	return args.Get(0).(int64), args.Error(1)
}

type mockRepaymentRepo struct{ mock.Mock }

func (m *mockRepaymentRepo) Create(ctx context.Context, r *domain.LoanRepayment) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRepaymentRepo) GetByID(ctx context.Context, id int64) (*domain.LoanRepayment, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.LoanRepayment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepaymentRepo) List(ctx context.Context, filter domain.RepaymentFilter) ([]*domain.LoanRepayment, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]*domain.LoanRepayment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepaymentRepo) Update(ctx context.Context, r *domain.LoanRepayment) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRepaymentRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepaymentRepo) CountByLoan(ctx context.Context, loanID int64) (int64, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepaymentRepo) CountBySource(ctx context.Context, sourceID int64) (int64, error) {
	args := m.Called(ctx, sourceID)
	return args.Get(0).(int64), args.Error(1)
}

type mockReportRepo struct{ mock.Mock }

func (m *mockReportRepo) AcquisitionEntries(ctx context.Context, purchaseID int64) ([]*domain.AcquisitionEntry, error) {
	args := m.Called(ctx, purchaseID)
	if v := args.Get(0); v != nil {
		return v.([]*domain.AcquisitionEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportRepo) RepaymentLedger(ctx context.Context, loanID int64) ([]*domain.RepaymentLedgerRow, error) {
	args := m.Called(ctx, loanID)
	if v := args.Get(0); v != nil {
		return v.([]*domain.RepaymentLedgerRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportRepo) OutstandingInvoicesPastDue(ctx context.Context, asOf time.Time) ([]*domain.Invoice, error) {
	args := m.Called(ctx, asOf)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Invoice), args.Error(1)
	}
	return nil, args.Error(1)
}
