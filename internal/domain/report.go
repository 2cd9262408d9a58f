package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report entry types for the acquisition cost ledger.
const (
	EntryTypeLoanRepayment = "Loan Repayment"
	EntryTypeDirectPayment = "Direct Payment"
)

// AcquisitionEntry is one row of the unioned acquisition ledger: either
// a loan repayment or a direct (non-loan) payment against the purchase.
type AcquisitionEntry struct {
	RowID      int64  `json:"-" db:"row_id"`
	PurchaseID int64  `json:"purchase_id" db:"purchase_id"`
	UserID     *int64 `json:"user_id,omitempty" db:"user_id"`

	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	Principal   decimal.Decimal `json:"principal" db:"principal"`
	Interest    decimal.Decimal `json:"interest" db:"interest"`
	Others      decimal.Decimal `json:"others" db:"others"`
	Payment     decimal.Decimal `json:"payment" db:"payment"`

	Source    string  `json:"source" db:"source"`
	Mode      string  `json:"mode" db:"mode"`
	Reference *string `json:"reference,omitempty" db:"reference"`
	EntryType string  `json:"type" db:"entry_type"`
}

// AcquisitionCostSummary aggregates the acquisition ledger for one purchase.
type AcquisitionCostSummary struct {
	PurchaseID   int64  `json:"purchase_id"`
	PropertyName string `json:"property_name"`

	TotalLoanPrincipal decimal.Decimal `json:"total_loan_principal"`
	TotalLoanInterest  decimal.Decimal `json:"total_loan_interest"`
	TotalLoanOthers    decimal.Decimal `json:"total_loan_others"`
	TotalLoanPayment   decimal.Decimal `json:"total_loan_payment"`

	TotalBuilderPrincipal decimal.Decimal `json:"total_builder_principal"`
	TotalBuilderPayment   decimal.Decimal `json:"total_builder_payment"`

	TotalPrincipalPayment decimal.Decimal `json:"total_principal_payment"`
	TotalPayment          decimal.Decimal `json:"total_payment"`

	TotalSaleCost    decimal.Decimal `json:"total_sale_cost"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`

	// PercentComplete is principal paid over sale cost, rounded to two
	// decimal places for display only.
	PercentComplete decimal.Decimal `json:"percent_complete"`
}

// RepaymentLedgerRow is one repayment joined with its source name,
// ordered by payment date (ties broken by id) so running sums are
// well-defined.
type RepaymentLedgerRow struct {
	RepaymentID int64     `json:"repayment_id" db:"repayment_id"`
	LoanID      int64     `json:"loan_id" db:"loan_id"`
	PaymentDate time.Time `json:"payment_date" db:"payment_date"`

	PrincipalAmount decimal.Decimal `json:"principal_amount" db:"principal_amount"`
	InterestAmount  decimal.Decimal `json:"interest_amount" db:"interest_amount"`
	OtherFees       decimal.Decimal `json:"other_fees" db:"other_fees"`
	Penalties       decimal.Decimal `json:"penalties" db:"penalties"`

	SourceName string `json:"source" db:"source_name"`
	Mode       string `json:"mode" db:"payment_mode"`
}

// LoanRepaymentDetailRow extends a ledger row with the rolling totals
// computed over the rows up to and including it.
type LoanRepaymentDetailRow struct {
	RepaymentLedgerRow

	TotalPayment       decimal.Decimal `json:"total_payment"`
	TotalPrincipalPaid decimal.Decimal `json:"total_principal_paid"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	PrincipalBalance   decimal.Decimal `json:"principal_balance"`
}

// LoanRepaymentSummary aggregates all repayments of one loan.
type LoanRepaymentSummary struct {
	LoanID       int64  `json:"loan_id"`
	LoanName     string `json:"loan_name"`
	PropertyName string `json:"property_name"`

	SanctionedAmount decimal.Decimal `json:"loan_sanctioned_amount"`
	DisbursedAmount  decimal.Decimal `json:"loan_disbursed_amount"`

	TotalPrincipalPaid decimal.Decimal `json:"total_principal_paid"`
	TotalInterestPaid  decimal.Decimal `json:"total_interest_paid"`
	TotalOtherFees     decimal.Decimal `json:"total_other_fees"`
	TotalPenalties     decimal.Decimal `json:"total_penalties"`
	TotalAmountPaid    decimal.Decimal `json:"total_amount_paid"`

	TotalPayments     int        `json:"total_payments"`
	LastRepaymentDate *time.Time `json:"last_repayment_date,omitempty"`

	PrincipalBalance decimal.Decimal `json:"principal_balance"`
}
