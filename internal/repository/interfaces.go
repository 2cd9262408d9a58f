package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propstack/acquisition-engine/internal/domain"
)

// UserRepository defines data operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// PropertyRepository defines data operations for properties.
type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	Delete(ctx context.Context, id int64) error
}

// PurchaseRepository defines data operations for purchases.
type PurchaseRepository interface {
	Create(ctx context.Context, p *domain.Purchase) error
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)

	// GetByIDForUpdate locks the purchase row for the duration of the
	// surrounding transaction so ceiling checks stay consistent under
	// concurrent writers.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Purchase, error)

	List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error)
	Update(ctx context.Context, p *domain.Purchase) error
	Delete(ctx context.Context, id int64) error
	CountByProperty(ctx context.Context, propertyID int64) (int64, error)
}

// InvoiceRepository defines data operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error

	// SumAmountByPurchase sums invoice amounts for a purchase, excluding
	// excludeID (0 excludes nothing) and cancelled invoices.
	SumAmountByPurchase(ctx context.Context, purchaseID, excludeID int64) (decimal.Decimal, error)

	NumberExists(ctx context.Context, purchaseID int64, number string, excludeID int64) (bool, error)
	CountByPurchase(ctx context.Context, purchaseID int64) (int64, error)
}

// LoanRepository defines data operations for loans.
type LoanRepository interface {
	Create(ctx context.Context, l *domain.Loan) error
	GetByID(ctx context.Context, id int64) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error)
	List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error)
	Update(ctx context.Context, l *domain.Loan) error
	Delete(ctx context.Context, id int64) error
	CountByPurchase(ctx context.Context, purchaseID int64) (int64, error)
}

// PaymentSourceRepository defines data operations for payment sources.
type PaymentSourceRepository interface {
	Create(ctx context.Context, s *domain.PaymentSource) error
	GetByID(ctx context.Context, id int64) (*domain.PaymentSource, error)
	GetByLoanID(ctx context.Context, loanID int64) (*domain.PaymentSource, error)
	List(ctx context.Context, userID int64) ([]*domain.PaymentSource, error)
	Update(ctx context.Context, s *domain.PaymentSource) error
	Delete(ctx context.Context, id int64) error
}

// PaymentRepository defines data operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error)
	Update(ctx context.Context, p *domain.Payment) error
	Delete(ctx context.Context, id int64) error

	// SumByInvoice sums payment amounts on an invoice, excluding
	// excludeID (0 excludes nothing).
	SumByInvoice(ctx context.Context, invoiceID, excludeID int64) (decimal.Decimal, error)

	// SumBySource sums payment amounts drawn through a source, excluding
	// excludeID.
	SumBySource(ctx context.Context, sourceID, excludeID int64) (decimal.Decimal, error)

	// SumByLoan sums payments routed through the loan's payment source:
	// the loan's live total_disbursed_amount.
	SumByLoan(ctx context.Context, loanID int64) (decimal.Decimal, error)

	CountByInvoice(ctx context.Context, invoiceID int64) (int64, error)
	CountBySource(ctx context.Context, sourceID int64) (int64, error)
}

// RepaymentRepository defines data operations for loan repayments.
type RepaymentRepository interface {
	Create(ctx context.Context, r *domain.LoanRepayment) error
	GetByID(ctx context.Context, id int64) (*domain.LoanRepayment, error)
	List(ctx context.Context, filter domain.RepaymentFilter) ([]*domain.LoanRepayment, error)
	Update(ctx context.Context, r *domain.LoanRepayment) error
	Delete(ctx context.Context, id int64) error
	CountByLoan(ctx context.Context, loanID int64) (int64, error)
	CountBySource(ctx context.Context, sourceID int64) (int64, error)
}

// DocumentRepository defines data operations for document references.
type DocumentRepository interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	List(ctx context.Context, entityType domain.DocumentEntity, entityID int64) ([]*domain.Document, error)
	Delete(ctx context.Context, id int64) error
}

// ReportRepository produces the joined rows that back the reporting
// layer. Ordering is payment_date then row id so that the running sums
// computed on top are deterministic.
type ReportRepository interface {
	AcquisitionEntries(ctx context.Context, purchaseID int64) ([]*domain.AcquisitionEntry, error)
	RepaymentLedger(ctx context.Context, loanID int64) ([]*domain.RepaymentLedgerRow, error)

	// OutstandingInvoicesPastDue lists non-cancelled invoices past their
	// due date whose payments do not cover the amount, for the
	// scheduler's status sweep.
	OutstandingInvoicesPastDue(ctx context.Context, asOf time.Time) ([]*domain.Invoice, error)
}
