package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/propstack/acquisition-engine/internal/domain"
)

type sourceRepository struct {
	db *DB
}

func NewPaymentSourceRepository(db *DB) PaymentSourceRepository {
	return &sourceRepository{db: db}
}

const sourceColumns = `
	id, user_id, name, source_type, description, is_active, bank_name,
	account_number, ifsc_code, branch, loan_id, lender, card_number,
	card_expiry, wallet_provider, wallet_identifier, created_at, updated_at
`

func (r *sourceRepository) Create(ctx context.Context, s *domain.PaymentSource) error {
	query := `
		INSERT INTO payment_sources (user_id, name, source_type, description,
			is_active, bank_name, account_number, ifsc_code, branch, loan_id,
			lender, card_number, card_expiry, wallet_provider, wallet_identifier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		s.UserID,
		s.Name,
		s.SourceType,
		s.Description,
		s.IsActive,
		s.BankName,
		s.AccountNumber,
		s.IFSCCode,
		s.Branch,
		s.LoanID,
		s.Lender,
		s.CardNumber,
		s.CardExpiry,
		s.WalletProvider,
		s.WalletIdentifier,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *sourceRepository) GetByID(ctx context.Context, id int64) (*domain.PaymentSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM payment_sources WHERE id = $1`

	var s domain.PaymentSource
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &s, query, id); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *sourceRepository) GetByLoanID(ctx context.Context, loanID int64) (*domain.PaymentSource, error) {
	query := `
		SELECT ` + sourceColumns + `
		FROM payment_sources
		WHERE loan_id = $1 AND source_type = $2
		ORDER BY id
		LIMIT 1
	`

	var s domain.PaymentSource
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &s, query, loanID, domain.SourceTypeLoan); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *sourceRepository) List(ctx context.Context, userID int64) ([]*domain.PaymentSource, error) {
	query := `SELECT ` + sourceColumns + ` FROM payment_sources WHERE user_id = $1 ORDER BY id`

	var sources []*domain.PaymentSource
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &sources, query, userID); err != nil {
		return nil, err
	}

	return sources, nil
}

func (r *sourceRepository) Update(ctx context.Context, s *domain.PaymentSource) error {
	query := `
		UPDATE payment_sources
		SET name = $2, description = $3, is_active = $4, bank_name = $5,
			account_number = $6, ifsc_code = $7, branch = $8, lender = $9,
			card_number = $10, card_expiry = $11, wallet_provider = $12,
			wallet_identifier = $13, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		s.ID,
		s.Name,
		s.Description,
		s.IsActive,
		s.BankName,
		s.AccountNumber,
		s.IFSCCode,
		s.Branch,
		s.Lender,
		s.CardNumber,
		s.CardExpiry,
		s.WalletProvider,
		s.WalletIdentifier,
	).Scan(&s.UpdatedAt)
}

func (r *sourceRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM payment_sources WHERE id = $1`, id)
	return err
}
