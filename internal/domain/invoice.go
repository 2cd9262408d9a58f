package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InvoiceStatusPending       = "pending"
	InvoiceStatusPartiallyPaid = "partially_paid"
	InvoiceStatusPaid          = "paid"
	InvoiceStatusOverdue       = "overdue"
	InvoiceStatusCancelled     = "cancelled"
)

// Invoice is a billable milestone amount raised against a purchase.
// invoice_number is unique within the purchase.
type Invoice struct {
	ID         int64 `json:"id" db:"id"`
	PurchaseID int64 `json:"purchase_id" db:"purchase_id"`

	InvoiceNumber string          `json:"invoice_number" db:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date" db:"invoice_date"`
	DueDate       *time.Time      `json:"due_date,omitempty" db:"due_date"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`

	Status      string  `json:"status" db:"status"`
	Milestone   *string `json:"milestone,omitempty" db:"milestone"`
	Description *string `json:"description,omitempty" db:"description"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Derived: sum of associated payments.
	PaidAmount decimal.Decimal `json:"paid_amount" db:"-"`
}

// StatusForPaid derives the settlement status from the paid sum.
// Cancelled invoices keep their status regardless of payments.
func (i *Invoice) StatusForPaid(paid decimal.Decimal) string {
	if i.Status == InvoiceStatusCancelled {
		return InvoiceStatusCancelled
	}
	switch {
	case paid.GreaterThanOrEqual(i.Amount) && i.Amount.IsPositive():
		return InvoiceStatusPaid
	case paid.IsPositive():
		return InvoiceStatusPartiallyPaid
	default:
		return InvoiceStatusPending
	}
}

// Outstanding returns amount - paid.
func (i *Invoice) Outstanding(paid decimal.Decimal) decimal.Decimal {
	return i.Amount.Sub(paid)
}

type CreateInvoiceRequest struct {
	PurchaseID    int64           `json:"purchase_id" validate:"required,gt=0"`
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	InvoiceDate   time.Time       `json:"invoice_date" validate:"required"`
	DueDate       *time.Time      `json:"due_date"`
	Amount        decimal.Decimal `json:"amount" validate:"decimal_gt_zero"`
	Milestone     *string         `json:"milestone"`
	Description   *string         `json:"description"`
}

type UpdateInvoiceRequest struct {
	InvoiceNumber *string          `json:"invoice_number"`
	InvoiceDate   *time.Time       `json:"invoice_date"`
	DueDate       *time.Time       `json:"due_date"`
	Amount        *decimal.Decimal `json:"amount"`
	Status        *string          `json:"status"`
	Milestone     *string          `json:"milestone"`
	Description   *string          `json:"description"`
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	PurchaseID *int64
	Status     *string
	Milestone  *string
	FromDate   *time.Time
	ToDate     *time.Time
}
