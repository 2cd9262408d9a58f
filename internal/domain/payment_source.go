package domain

import (
	"time"
)

// SourceType is the closed set of funding channel variants.
type SourceType string

const (
	SourceTypeBankAccount   SourceType = "bank_account"
	SourceTypeLoan          SourceType = "loan"
	SourceTypeCash          SourceType = "cash"
	SourceTypeCreditCard    SourceType = "credit_card"
	SourceTypeDigitalWallet SourceType = "digital_wallet"
)

// Valid reports whether t is one of the known source types.
func (t SourceType) Valid() bool {
	switch t {
	case SourceTypeBankAccount, SourceTypeLoan, SourceTypeCash, SourceTypeCreditCard, SourceTypeDigitalWallet:
		return true
	}
	return false
}

// PaymentSource is a named funding channel. One row shape holds all
// variants; the service enforces the per-variant required fields.
type PaymentSource struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"user_id" db:"user_id"`

	Name       string     `json:"name" db:"name"`
	SourceType SourceType `json:"source_type" db:"source_type"`

	Description *string `json:"description,omitempty" db:"description"`
	IsActive    bool    `json:"is_active" db:"is_active"`

	// bank_account
	BankName      *string `json:"bank_name,omitempty" db:"bank_name"`
	AccountNumber *string `json:"account_number,omitempty" db:"account_number"`
	IFSCCode      *string `json:"ifsc_code,omitempty" db:"ifsc_code"`
	Branch        *string `json:"branch,omitempty" db:"branch"`

	// loan
	LoanID *int64  `json:"loan_id,omitempty" db:"loan_id"`
	Lender *string `json:"lender,omitempty" db:"lender"`

	// credit_card
	CardNumber *string `json:"card_number,omitempty" db:"card_number"`
	CardExpiry *string `json:"card_expiry,omitempty" db:"card_expiry"`

	// digital_wallet
	WalletProvider   *string `json:"wallet_provider,omitempty" db:"wallet_provider"`
	WalletIdentifier *string `json:"wallet_identifier,omitempty" db:"wallet_identifier"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreatePaymentSourceRequest struct {
	Name       string     `json:"name" validate:"required"`
	SourceType SourceType `json:"source_type" validate:"required"`

	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`

	BankName      *string `json:"bank_name"`
	AccountNumber *string `json:"account_number"`
	IFSCCode      *string `json:"ifsc_code"`
	Branch        *string `json:"branch"`

	LoanID *int64  `json:"loan_id"`
	Lender *string `json:"lender"`

	CardNumber *string `json:"card_number"`
	CardExpiry *string `json:"card_expiry"`

	WalletProvider   *string `json:"wallet_provider"`
	WalletIdentifier *string `json:"wallet_identifier"`
}

type UpdatePaymentSourceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`

	BankName      *string `json:"bank_name"`
	AccountNumber *string `json:"account_number"`
	IFSCCode      *string `json:"ifsc_code"`
	Branch        *string `json:"branch"`

	Lender *string `json:"lender"`

	CardNumber *string `json:"card_number"`
	CardExpiry *string `json:"card_expiry"`

	WalletProvider   *string `json:"wallet_provider"`
	WalletIdentifier *string `json:"wallet_identifier"`
}
