package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money applied against one invoice, drawn from one payment
// source.
type Payment struct {
	ID        int64 `json:"id" db:"id"`
	UserID    int64 `json:"user_id" db:"user_id"`
	SourceID  int64 `json:"source_id" db:"source_id"`
	InvoiceID int64 `json:"invoice_id" db:"invoice_id"`

	PaymentDate          time.Time       `json:"payment_date" db:"payment_date"`
	Amount               decimal.Decimal `json:"amount" db:"amount"`
	PaymentMode          string          `json:"payment_mode" db:"payment_mode"`
	TransactionReference *string         `json:"transaction_reference,omitempty" db:"transaction_reference"`

	ReceiptDate   *time.Time `json:"receipt_date,omitempty" db:"receipt_date"`
	ReceiptNumber *string    `json:"receipt_number,omitempty" db:"receipt_number"`

	Notes *string `json:"notes,omitempty" db:"notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreatePaymentRequest struct {
	InvoiceID int64 `json:"invoice_id" validate:"required,gt=0"`
	SourceID  int64 `json:"source_id" validate:"required,gt=0"`

	PaymentDate          time.Time       `json:"payment_date" validate:"required"`
	Amount               decimal.Decimal `json:"amount" validate:"decimal_gt_zero"`
	PaymentMode          string          `json:"payment_mode" validate:"required"`
	TransactionReference *string         `json:"transaction_reference"`

	ReceiptDate   *time.Time `json:"receipt_date"`
	ReceiptNumber *string    `json:"receipt_number"`

	Notes *string `json:"notes"`
}

type UpdatePaymentRequest struct {
	SourceID *int64 `json:"source_id"`

	PaymentDate          *time.Time       `json:"payment_date"`
	Amount               *decimal.Decimal `json:"amount"`
	PaymentMode          *string          `json:"payment_mode"`
	TransactionReference *string          `json:"transaction_reference"`

	ReceiptDate   *time.Time `json:"receipt_date"`
	ReceiptNumber *string    `json:"receipt_number"`

	Notes *string `json:"notes"`
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	InvoiceID   *int64
	SourceID    *int64
	PaymentMode *string
	FromDate    *time.Time
	ToDate      *time.Time
	FromAmount  *decimal.Decimal
	ToAmount    *decimal.Decimal
}
