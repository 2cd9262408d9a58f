package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/propstack/acquisition-engine/internal/domain"
)

type repaymentRepository struct {
	db *DB
}

func NewRepaymentRepository(db *DB) RepaymentRepository {
	return &repaymentRepository{db: db}
}

const repaymentColumns = `
	id, loan_id, source_id, payment_date, principal_amount, interest_amount,
	other_fees, penalties, payment_mode, transaction_reference, notes,
	created_at, updated_at
`

func (r *repaymentRepository) Create(ctx context.Context, rp *domain.LoanRepayment) error {
	query := `
		INSERT INTO loan_repayments (loan_id, source_id, payment_date,
			principal_amount, interest_amount, other_fees, penalties, payment_mode,
			transaction_reference, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		rp.LoanID,
		rp.SourceID,
		rp.PaymentDate,
		rp.PrincipalAmount,
		rp.InterestAmount,
		rp.OtherFees,
		rp.Penalties,
		rp.PaymentMode,
		rp.TransactionReference,
		rp.Notes,
	).Scan(&rp.ID, &rp.CreatedAt, &rp.UpdatedAt)
}

func (r *repaymentRepository) GetByID(ctx context.Context, id int64) (*domain.LoanRepayment, error) {
	query := `SELECT ` + repaymentColumns + ` FROM loan_repayments WHERE id = $1`

	var rp domain.LoanRepayment
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &rp, query, id); err != nil {
		return nil, err
	}

	return &rp, nil
}

func (r *repaymentRepository) List(ctx context.Context, filter domain.RepaymentFilter) ([]*domain.LoanRepayment, error) {
	query := `SELECT ` + repaymentColumns + ` FROM loan_repayments WHERE 1=1`
	args := []interface{}{}

	if filter.LoanID != nil {
		args = append(args, *filter.LoanID)
		query += ` AND loan_id = ` + placeholder(len(args))
	}
	if filter.SourceID != nil {
		args = append(args, *filter.SourceID)
		query += ` AND source_id = ` + placeholder(len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		query += ` AND payment_date >= ` + placeholder(len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		query += ` AND payment_date <= ` + placeholder(len(args))
	}

	query += ` ORDER BY payment_date DESC, id DESC`

	var repayments []*domain.LoanRepayment
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &repayments, query, args...); err != nil {
		return nil, err
	}

	return repayments, nil
}

func (r *repaymentRepository) Update(ctx context.Context, rp *domain.LoanRepayment) error {
	query := `
		UPDATE loan_repayments
		SET source_id = $2, payment_date = $3, principal_amount = $4,
			interest_amount = $5, other_fees = $6, penalties = $7, payment_mode = $8,
			transaction_reference = $9, notes = $10, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		rp.ID,
		rp.SourceID,
		rp.PaymentDate,
		rp.PrincipalAmount,
		rp.InterestAmount,
		rp.OtherFees,
		rp.Penalties,
		rp.PaymentMode,
		rp.TransactionReference,
		rp.Notes,
	).Scan(&rp.UpdatedAt)
}

func (r *repaymentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM loan_repayments WHERE id = $1`, id)
	return err
}

func (r *repaymentRepository) CountByLoan(ctx context.Context, loanID int64) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &count,
		`SELECT COUNT(*) FROM loan_repayments WHERE loan_id = $1`, loanID)
	return count, err
}

func (r *repaymentRepository) CountBySource(ctx context.Context, sourceID int64) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &count,
		`SELECT COUNT(*) FROM loan_repayments WHERE source_id = $1`, sourceID)
	return count, err
}
