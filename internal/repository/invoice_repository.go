package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/propstack/acquisition-engine/internal/domain"
)

type invoiceRepository struct {
	db *DB
}

func NewInvoiceRepository(db *DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `
	id, purchase_id, invoice_number, invoice_date, due_date, amount, status,
	milestone, description, created_at, updated_at
`

func (r *invoiceRepository) Create(ctx context.Context, inv *domain.Invoice) error {
	query := `
		INSERT INTO invoices (purchase_id, invoice_number, invoice_date, due_date,
			amount, status, milestone, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		inv.PurchaseID,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.DueDate,
		inv.Amount,
		inv.Status,
		inv.Milestone,
		inv.Description,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	var inv domain.Invoice
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &inv, query, id); err != nil {
		return nil, err
	}

	return &inv, nil
}

func (r *invoiceRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`

	var inv domain.Invoice
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &inv, query, id); err != nil {
		return nil, err
	}

	return &inv, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []interface{}{}

	if filter.PurchaseID != nil {
		args = append(args, *filter.PurchaseID)
		query += ` AND purchase_id = ` + placeholder(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = ` + placeholder(len(args))
	}
	if filter.Milestone != nil {
		args = append(args, *filter.Milestone)
		query += ` AND milestone = ` + placeholder(len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		query += ` AND invoice_date >= ` + placeholder(len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		query += ` AND invoice_date <= ` + placeholder(len(args))
	}

	query += ` ORDER BY invoice_date DESC, id DESC`

	var invoices []*domain.Invoice
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &invoices, query, args...); err != nil {
		return nil, err
	}

	return invoices, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *domain.Invoice) error {
	query := `
		UPDATE invoices
		SET invoice_number = $2, invoice_date = $3, due_date = $4, amount = $5,
			status = $6, milestone = $7, description = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		inv.ID,
		inv.InvoiceNumber,
		inv.InvoiceDate,
		inv.DueDate,
		inv.Amount,
		inv.Status,
		inv.Milestone,
		inv.Description,
	).Scan(&inv.UpdatedAt)
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	_, err := r.db.ext(ctx).ExecContext(ctx,
		`UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	return err
}

func (r *invoiceRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	return err
}

func (r *invoiceRepository) SumAmountByPurchase(ctx context.Context, purchaseID, excludeID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM invoices
		WHERE purchase_id = $1 AND id <> $2 AND status <> $3
	`

	var sum decimal.Decimal
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &sum, query, purchaseID, excludeID, domain.InvoiceStatusCancelled)
	return sum, err
}

func (r *invoiceRepository) NumberExists(ctx context.Context, purchaseID int64, number string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE purchase_id = $1 AND invoice_number = $2 AND id <> $3
		)
	`

	var exists bool
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &exists, query, purchaseID, number, excludeID)
	return exists, err
}

func (r *invoiceRepository) CountByPurchase(ctx context.Context, purchaseID int64) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &count,
		`SELECT COUNT(*) FROM invoices WHERE purchase_id = $1`, purchaseID)
	return count, err
}
