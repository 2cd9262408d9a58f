package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanRepayment is money paid back against a loan's disbursed principal,
// split into principal, interest, fees and penalties.
type LoanRepayment struct {
	ID       int64 `json:"id" db:"id"`
	LoanID   int64 `json:"loan_id" db:"loan_id"`
	SourceID int64 `json:"source_id" db:"source_id"`

	PaymentDate     time.Time       `json:"payment_date" db:"payment_date"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	OtherFees       decimal.Decimal `json:"other_fees" db:"other_fees"`
	Penalties       decimal.Decimal `json:"penalties" db:"penalties"`

	PaymentMode          string  `json:"payment_mode" db:"payment_mode"`
	TransactionReference *string `json:"transaction_reference,omitempty" db:"transaction_reference"`
	Notes                *string `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Derived, never stored.
	TotalPayment decimal.Decimal `json:"total_payment" db:"-"`
}

// ComputeDerived fills total_payment = principal + interest + fees + penalties.
func (r *LoanRepayment) ComputeDerived() {
	r.TotalPayment = r.PrincipalAmount.Add(r.InterestAmount).Add(r.OtherFees).Add(r.Penalties)
}

type CreateRepaymentRequest struct {
	LoanID   int64 `json:"loan_id" validate:"required,gt=0"`
	SourceID int64 `json:"source_id" validate:"required,gt=0"`

	PaymentDate     time.Time           `json:"payment_date" validate:"required"`
	PrincipalAmount decimal.Decimal     `json:"principal_amount" validate:"decimal_gt_zero"`
	InterestAmount  decimal.Decimal     `json:"interest_amount" validate:"decimal_gte_zero"`
	OtherFees       decimal.NullDecimal `json:"other_fees"`
	Penalties       decimal.NullDecimal `json:"penalties"`

	PaymentMode          string  `json:"payment_mode" validate:"required"`
	TransactionReference *string `json:"transaction_reference"`
	Notes                *string `json:"notes"`
}

type UpdateRepaymentRequest struct {
	SourceID *int64 `json:"source_id"`

	PaymentDate     *time.Time       `json:"payment_date"`
	PrincipalAmount *decimal.Decimal `json:"principal_amount"`
	InterestAmount  *decimal.Decimal `json:"interest_amount"`
	OtherFees       *decimal.Decimal `json:"other_fees"`
	Penalties       *decimal.Decimal `json:"penalties"`

	PaymentMode          *string `json:"payment_mode"`
	TransactionReference *string `json:"transaction_reference"`
	Notes                *string `json:"notes"`
}

// RepaymentFilter narrows repayment listings.
type RepaymentFilter struct {
	LoanID   *int64
	SourceID *int64
	FromDate *time.Time
	ToDate   *time.Time
}
