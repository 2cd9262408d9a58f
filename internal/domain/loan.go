package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/propstack/acquisition-engine/pkg/utils"
)

// Loan is a financing facility against a purchase. Creating a loan also
// creates a linked loan-type payment source in the same transaction.
//
// total_disbursed_amount is never stored: it is the live sum of payments
// routed through the loan's payment source, computed at read and
// validation time.
type Loan struct {
	ID         int64  `json:"id" db:"id"`
	UserID     *int64 `json:"user_id,omitempty" db:"user_id"`
	PurchaseID int64  `json:"purchase_id" db:"purchase_id"`

	Name        string  `json:"name" db:"name"`
	Institution string  `json:"institution" db:"institution"`
	Agent       *string `json:"agent,omitempty" db:"agent"`

	SanctionDate time.Time `json:"sanction_date" db:"sanction_date"`

	SanctionAmount      decimal.Decimal `json:"sanction_amount" db:"sanction_amount"`
	ProcessingFee       decimal.Decimal `json:"processing_fee" db:"processing_fee"`
	OtherCharges        decimal.Decimal `json:"other_charges" db:"other_charges"`
	LoanSanctionCharges decimal.Decimal `json:"loan_sanction_charges" db:"loan_sanction_charges"`

	InterestRate decimal.Decimal `json:"interest_rate" db:"interest_rate"`
	TenureMonths int             `json:"tenure_months" db:"tenure_months"`

	IsActive bool `json:"is_active" db:"is_active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Derived, never stored.
	TotalDisbursedAmount decimal.Decimal `json:"total_disbursed_amount" db:"-"`
	EstimatedInstallment decimal.Decimal `json:"estimated_installment" db:"-"`

	// Read-side denormalization.
	PropertyName string `json:"property_name,omitempty" db:"property_name"`
}

// ComputeDerived fills the flat-interest installment estimate. The
// disbursed amount comes from the payment ledger, not from here.
func (l *Loan) ComputeDerived() {
	l.EstimatedInstallment = utils.MonthlyInstallment(l.SanctionAmount, l.InterestRate, l.TenureMonths)
}

type CreateLoanRequest struct {
	PurchaseID int64 `json:"purchase_id" validate:"required,gt=0"`

	Name        string  `json:"name" validate:"required"`
	Institution string  `json:"institution" validate:"required"`
	Agent       *string `json:"agent"`

	SanctionDate   time.Time       `json:"sanction_date" validate:"required"`
	SanctionAmount decimal.Decimal `json:"sanction_amount" validate:"decimal_gt_zero"`

	ProcessingFee       decimal.NullDecimal `json:"processing_fee"`
	OtherCharges        decimal.NullDecimal `json:"other_charges"`
	LoanSanctionCharges decimal.NullDecimal `json:"loan_sanction_charges"`

	InterestRate decimal.Decimal `json:"interest_rate" validate:"decimal_gte_zero"`
	TenureMonths int             `json:"tenure_months" validate:"required,gt=0"`
}

type UpdateLoanRequest struct {
	Name        *string `json:"name"`
	Institution *string `json:"institution"`
	Agent       *string `json:"agent"`

	SanctionDate   *time.Time       `json:"sanction_date"`
	SanctionAmount *decimal.Decimal `json:"sanction_amount"`

	ProcessingFee       *decimal.Decimal `json:"processing_fee"`
	OtherCharges        *decimal.Decimal `json:"other_charges"`
	LoanSanctionCharges *decimal.Decimal `json:"loan_sanction_charges"`

	InterestRate *decimal.Decimal `json:"interest_rate"`
	TenureMonths *int             `json:"tenure_months"`
	IsActive     *bool            `json:"is_active"`
}

// LoanFilter narrows loan listings.
type LoanFilter struct {
	PurchaseID *int64
	IsActive   *bool
	FromAmount *decimal.Decimal
	ToAmount   *decimal.Decimal
}
