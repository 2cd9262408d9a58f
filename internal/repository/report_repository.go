package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/propstack/acquisition-engine/internal/domain"
)

type reportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) ReportRepository {
	return &reportRepository{db: db}
}

// AcquisitionEntries unions loan repayments (split into principal,
// interest and others) with direct non-loan payments against the
// purchase, ordered by payment date with insertion id as a stable
// tie-break.
func (r *reportRepository) AcquisitionEntries(ctx context.Context, purchaseID int64) ([]*domain.AcquisitionEntry, error) {
	query := `
		SELECT
			rp.id AS row_id,
			l.purchase_id,
			l.user_id,
			rp.payment_date,
			rp.principal_amount AS principal,
			rp.interest_amount AS interest,
			rp.other_fees + rp.penalties AS others,
			rp.principal_amount + rp.interest_amount + rp.other_fees + rp.penalties AS payment,
			s.name AS source,
			rp.payment_mode AS mode,
			rp.transaction_reference AS reference,
			'Loan Repayment' AS entry_type
		FROM loan_repayments rp
		JOIN loans l ON l.id = rp.loan_id
		JOIN payment_sources s ON s.id = rp.source_id
		WHERE l.purchase_id = $1
		UNION ALL
		SELECT
			p.id AS row_id,
			i.purchase_id,
			p.user_id,
			p.payment_date,
			p.amount AS principal,
			0 AS interest,
			0 AS others,
			p.amount AS payment,
			s.name AS source,
			p.payment_mode AS mode,
			p.transaction_reference AS reference,
			'Direct Payment' AS entry_type
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		JOIN payment_sources s ON s.id = p.source_id
		WHERE i.purchase_id = $1 AND s.source_type <> 'loan'
		ORDER BY payment_date, entry_type, row_id
	`

	var entries []*domain.AcquisitionEntry
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &entries, query, purchaseID); err != nil {
		return nil, err
	}

	return entries, nil
}

// RepaymentLedger returns the loan's repayments joined with the source
// name, ordered so the service's running sums are well-defined.
func (r *reportRepository) RepaymentLedger(ctx context.Context, loanID int64) ([]*domain.RepaymentLedgerRow, error) {
	query := `
		SELECT
			rp.id AS repayment_id,
			rp.loan_id,
			rp.payment_date,
			rp.principal_amount,
			rp.interest_amount,
			rp.other_fees,
			rp.penalties,
			s.name AS source_name,
			rp.payment_mode
		FROM loan_repayments rp
		JOIN payment_sources s ON s.id = rp.source_id
		WHERE rp.loan_id = $1
		ORDER BY rp.payment_date, rp.id
	`

	var rows []*domain.RepaymentLedgerRow
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &rows, query, loanID); err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *reportRepository) OutstandingInvoicesPastDue(ctx context.Context, asOf time.Time) ([]*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE due_date IS NOT NULL
		  AND due_date < $1
		  AND status NOT IN ($2, $3, $4)
		  AND amount > (SELECT COALESCE(SUM(p.amount), 0) FROM payments p WHERE p.invoice_id = invoices.id)
	`

	var invoices []*domain.Invoice
	err := sqlx.SelectContext(ctx, r.db.ext(ctx), &invoices, query, asOf,
		domain.InvoiceStatusCancelled, domain.InvoiceStatusPaid, domain.InvoiceStatusOverdue)
	if err != nil {
		return nil, err
	}

	return invoices, nil
}
