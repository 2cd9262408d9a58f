package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/propstack/acquisition-engine/internal/domain"
)

type paymentRepository struct {
	db *DB
}

func NewPaymentRepository(db *DB) PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
	id, user_id, source_id, invoice_id, payment_date, amount, payment_mode,
	transaction_reference, receipt_date, receipt_number, notes, created_at,
	updated_at
`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (user_id, source_id, invoice_id, payment_date, amount,
			payment_mode, transaction_reference, receipt_date, receipt_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		p.UserID,
		p.SourceID,
		p.InvoiceID,
		p.PaymentDate,
		p.Amount,
		p.PaymentMode,
		p.TransactionReference,
		p.ReceiptDate,
		p.ReceiptNumber,
		p.Notes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var p domain.Payment
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &p, query, id); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *paymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE 1=1`
	args := []interface{}{}

	if filter.InvoiceID != nil {
		args = append(args, *filter.InvoiceID)
		query += ` AND invoice_id = ` + placeholder(len(args))
	}
	if filter.SourceID != nil {
		args = append(args, *filter.SourceID)
		query += ` AND source_id = ` + placeholder(len(args))
	}
	if filter.PaymentMode != nil {
		args = append(args, *filter.PaymentMode)
		query += ` AND payment_mode = ` + placeholder(len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		query += ` AND payment_date >= ` + placeholder(len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		query += ` AND payment_date <= ` + placeholder(len(args))
	}
	if filter.FromAmount != nil {
		args = append(args, *filter.FromAmount)
		query += ` AND amount >= ` + placeholder(len(args))
	}
	if filter.ToAmount != nil {
		args = append(args, *filter.ToAmount)
		query += ` AND amount <= ` + placeholder(len(args))
	}

	query += ` ORDER BY payment_date DESC, id DESC`

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &payments, query, args...); err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	query := `
		UPDATE payments
		SET source_id = $2, payment_date = $3, amount = $4, payment_mode = $5,
			transaction_reference = $6, receipt_date = $7, receipt_number = $8,
			notes = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		p.ID,
		p.SourceID,
		p.PaymentDate,
		p.Amount,
		p.PaymentMode,
		p.TransactionReference,
		p.ReceiptDate,
		p.ReceiptNumber,
		p.Notes,
	).Scan(&p.UpdatedAt)
}

func (r *paymentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return err
}

func (r *paymentRepository) SumByInvoice(ctx context.Context, invoiceID, excludeID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &sum,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = $1 AND id <> $2`,
		invoiceID, excludeID)
	return sum, err
}

func (r *paymentRepository) SumBySource(ctx context.Context, sourceID, excludeID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &sum,
		`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE source_id = $1 AND id <> $2`,
		sourceID, excludeID)
	return sum, err
}

func (r *paymentRepository) SumByLoan(ctx context.Context, loanID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN payment_sources s ON s.id = p.source_id
		WHERE s.loan_id = $1
	`

	var sum decimal.Decimal
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &sum, query, loanID)
	return sum, err
}

func (r *paymentRepository) CountByInvoice(ctx context.Context, invoiceID int64) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &count,
		`SELECT COUNT(*) FROM payments WHERE invoice_id = $1`, invoiceID)
	return count, err
}

func (r *paymentRepository) CountBySource(ctx context.Context, sourceID int64) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &count,
		`SELECT COUNT(*) FROM payments WHERE source_id = $1`, sourceID)
	return count, err
}
