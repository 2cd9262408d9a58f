package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/propstack/acquisition-engine/internal/domain"
)

type loanRepository struct {
	db *DB
}

func NewLoanRepository(db *DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `
	l.id, l.user_id, l.purchase_id, l.name, l.institution, l.agent,
	l.sanction_date, l.sanction_amount, l.processing_fee, l.other_charges,
	l.loan_sanction_charges, l.interest_rate, l.tenure_months, l.is_active,
	l.created_at, l.updated_at, pr.name AS property_name
`

const loanFrom = `
	FROM loans l
	JOIN purchases p ON p.id = l.purchase_id
	JOIN properties pr ON pr.id = p.property_id
`

func (r *loanRepository) Create(ctx context.Context, l *domain.Loan) error {
	query := `
		INSERT INTO loans (user_id, purchase_id, name, institution, agent,
			sanction_date, sanction_amount, processing_fee, other_charges,
			loan_sanction_charges, interest_rate, tenure_months, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		l.UserID,
		l.PurchaseID,
		l.Name,
		l.Institution,
		l.Agent,
		l.SanctionDate,
		l.SanctionAmount,
		l.ProcessingFee,
		l.OtherCharges,
		l.LoanSanctionCharges,
		l.InterestRate,
		l.TenureMonths,
		l.IsActive,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + loanFrom + ` WHERE l.id = $1`

	var l domain.Loan
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &l, query, id); err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM (SELECT * FROM loans WHERE id = $1 FOR UPDATE) l
		JOIN purchases p ON p.id = l.purchase_id
		JOIN properties pr ON pr.id = p.property_id
	`

	var l domain.Loan
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &l, query, id); err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *loanRepository) List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + loanFrom + ` WHERE 1=1`
	args := []interface{}{}

	if filter.PurchaseID != nil {
		args = append(args, *filter.PurchaseID)
		query += ` AND l.purchase_id = ` + placeholder(len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += ` AND l.is_active = ` + placeholder(len(args))
	}
	if filter.FromAmount != nil {
		args = append(args, *filter.FromAmount)
		query += ` AND l.sanction_amount >= ` + placeholder(len(args))
	}
	if filter.ToAmount != nil {
		args = append(args, *filter.ToAmount)
		query += ` AND l.sanction_amount <= ` + placeholder(len(args))
	}

	query += ` ORDER BY l.id`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &loans, query, args...); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) Update(ctx context.Context, l *domain.Loan) error {
	query := `
		UPDATE loans
		SET name = $2, institution = $3, agent = $4, sanction_date = $5,
			sanction_amount = $6, processing_fee = $7, other_charges = $8,
			loan_sanction_charges = $9, interest_rate = $10, tenure_months = $11,
			is_active = $12, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		l.ID,
		l.Name,
		l.Institution,
		l.Agent,
		l.SanctionDate,
		l.SanctionAmount,
		l.ProcessingFee,
		l.OtherCharges,
		l.LoanSanctionCharges,
		l.InterestRate,
		l.TenureMonths,
		l.IsActive,
	).Scan(&l.UpdatedAt)
}

func (r *loanRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	return err
}

func (r *loanRepository) CountByPurchase(ctx context.Context, purchaseID int64) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &count,
		`SELECT COUNT(*) FROM loans WHERE purchase_id = $1`, purchaseID)
	return count, err
}
