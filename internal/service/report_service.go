package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

var oneHundred = decimal.NewFromInt(100)

// ReportService assembles the acquisition and repayment reports.
// Ledger rows come from the database ordered by payment date (id as
// tie break); the running sums and summaries are computed here so the
// arithmetic stays exact and testable. Summaries are cached in Redis
// and invalidated by the write paths.
type ReportService struct {
	reports   repository.ReportRepository
	purchases repository.PurchaseRepository
	loans     repository.LoanRepository
	payments  repository.PaymentRepository
	invoices  repository.InvoiceRepository
	cache     Cache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

func NewReportService(reports repository.ReportRepository, purchases repository.PurchaseRepository, loans repository.LoanRepository, payments repository.PaymentRepository, invoices repository.InvoiceRepository, cache Cache, cacheTTL time.Duration, logger *zap.Logger) *ReportService {
	return &ReportService{reports: reports, purchases: purchases, loans: loans, payments: payments, invoices: invoices, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// AcquisitionCostDetail returns the unioned ledger of loan repayments
// and direct payments for one purchase, oldest first.
func (s *ReportService) AcquisitionCostDetail(ctx context.Context, purchaseID int64) ([]*domain.AcquisitionEntry, error) {
	if _, err := s.purchases.GetByID(ctx, purchaseID); err != nil {
		return nil, getErr(err, "purchase", purchaseID)
	}
	entries, err := s.reports.AcquisitionEntries(ctx, purchaseID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	return entries, nil
}

// AcquisitionCostSummary aggregates the acquisition ledger against the
// purchase's total sale cost.
func (s *ReportService) AcquisitionCostSummary(ctx context.Context, purchaseID int64) (*domain.AcquisitionCostSummary, error) {
	if cached, err := s.cache.Get(ctx, acquisitionSummaryKey(purchaseID)); err == nil {
		var out domain.AcquisitionCostSummary
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return &out, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("report cache read failed", zap.Error(err))
	}

	purchase, err := s.purchases.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, getErr(err, "purchase", purchaseID)
	}
	purchase.ComputeDerived()

	entries, err := s.reports.AcquisitionEntries(ctx, purchaseID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}

	out := SummarizeAcquisition(purchase, entries)

	if data, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, acquisitionSummaryKey(purchaseID), data, s.cacheTTL); err != nil {
			s.logger.Warn("report cache write failed", zap.Error(err))
		}
	}
	return out, nil
}

// SummarizeAcquisition folds ledger entries into the purchase-level
// summary. Loan repayment rows carry a principal/interest/others split;
// direct payment rows count wholly as principal.
func SummarizeAcquisition(purchase *domain.Purchase, entries []*domain.AcquisitionEntry) *domain.AcquisitionCostSummary {
	out := &domain.AcquisitionCostSummary{
		PurchaseID:    purchase.ID,
		PropertyName:  purchase.PropertyName,
		TotalSaleCost: purchase.TotalSaleCost,
	}

	for _, e := range entries {
		switch e.EntryType {
		case domain.EntryTypeLoanRepayment:
			out.TotalLoanPrincipal = out.TotalLoanPrincipal.Add(e.Principal)
			out.TotalLoanInterest = out.TotalLoanInterest.Add(e.Interest)
			out.TotalLoanOthers = out.TotalLoanOthers.Add(e.Others)
			out.TotalLoanPayment = out.TotalLoanPayment.Add(e.Payment)
		case domain.EntryTypeDirectPayment:
			out.TotalBuilderPrincipal = out.TotalBuilderPrincipal.Add(e.Principal)
			out.TotalBuilderPayment = out.TotalBuilderPayment.Add(e.Payment)
		}
	}

	out.TotalPrincipalPayment = out.TotalLoanPrincipal.Add(out.TotalBuilderPrincipal)
	out.TotalPayment = out.TotalLoanPayment.Add(out.TotalBuilderPayment)
	out.RemainingBalance = out.TotalSaleCost.Sub(out.TotalPrincipalPayment)
	if out.TotalSaleCost.IsPositive() {
		out.PercentComplete = out.TotalPrincipalPayment.Mul(oneHundred).Div(out.TotalSaleCost).Round(2)
	}
	return out
}

// LoanRepaymentDetail returns the repayment ledger of one loan with
// running totals and the principal balance after each row.
func (s *ReportService) LoanRepaymentDetail(ctx context.Context, loanID int64) ([]*domain.LoanRepaymentDetailRow, error) {
	if _, err := s.loans.GetByID(ctx, loanID); err != nil {
		return nil, getErr(err, "loan", loanID)
	}
	rows, err := s.reports.RepaymentLedger(ctx, loanID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	disbursed, err := s.payments.SumByLoan(ctx, loanID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	return BuildRepaymentDetail(rows, disbursed), nil
}

// BuildRepaymentDetail computes the per-row roll-ups over an ordered
// ledger: total_payment for the row, cumulative principal and paid
// sums, and the principal balance against the disbursed amount.
func BuildRepaymentDetail(rows []*domain.RepaymentLedgerRow, disbursed decimal.Decimal) []*domain.LoanRepaymentDetailRow {
	out := make([]*domain.LoanRepaymentDetailRow, 0, len(rows))
	runningPrincipal := decimal.Zero
	runningPaid := decimal.Zero

	for _, r := range rows {
		total := r.PrincipalAmount.Add(r.InterestAmount).Add(r.OtherFees).Add(r.Penalties)
		runningPrincipal = runningPrincipal.Add(r.PrincipalAmount)
		runningPaid = runningPaid.Add(total)

		out = append(out, &domain.LoanRepaymentDetailRow{
			RepaymentLedgerRow: *r,
			TotalPayment:       total,
			TotalPrincipalPaid: runningPrincipal,
			TotalPaid:          runningPaid,
			PrincipalBalance:   disbursed.Sub(runningPrincipal),
		})
	}
	return out
}

// LoanRepaymentSummary aggregates all repayments of one loan.
func (s *ReportService) LoanRepaymentSummary(ctx context.Context, loanID int64) (*domain.LoanRepaymentSummary, error) {
	if cached, err := s.cache.Get(ctx, repaymentSummaryKey(loanID)); err == nil {
		var out domain.LoanRepaymentSummary
		if err := json.Unmarshal([]byte(cached), &out); err == nil {
			return &out, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("report cache read failed", zap.Error(err))
	}

	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, getErr(err, "loan", loanID)
	}
	rows, err := s.reports.RepaymentLedger(ctx, loanID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	disbursed, err := s.payments.SumByLoan(ctx, loanID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}

	out := SummarizeRepayments(loan, rows, disbursed)

	if data, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, repaymentSummaryKey(loanID), data, s.cacheTTL); err != nil {
			s.logger.Warn("report cache write failed", zap.Error(err))
		}
	}
	return out, nil
}

// SummarizeRepayments folds an ordered repayment ledger into the
// loan-level summary.
func SummarizeRepayments(loan *domain.Loan, rows []*domain.RepaymentLedgerRow, disbursed decimal.Decimal) *domain.LoanRepaymentSummary {
	out := &domain.LoanRepaymentSummary{
		LoanID:           loan.ID,
		LoanName:         loan.Name,
		PropertyName:     loan.PropertyName,
		SanctionedAmount: loan.SanctionAmount,
		DisbursedAmount:  disbursed,
	}

	for _, r := range rows {
		out.TotalPrincipalPaid = out.TotalPrincipalPaid.Add(r.PrincipalAmount)
		out.TotalInterestPaid = out.TotalInterestPaid.Add(r.InterestAmount)
		out.TotalOtherFees = out.TotalOtherFees.Add(r.OtherFees)
		out.TotalPenalties = out.TotalPenalties.Add(r.Penalties)
	}
	out.TotalAmountPaid = out.TotalPrincipalPaid.
		Add(out.TotalInterestPaid).
		Add(out.TotalOtherFees).
		Add(out.TotalPenalties)
	out.TotalPayments = len(rows)
	if n := len(rows); n > 0 {
		last := rows[n-1].PaymentDate
		out.LastRepaymentDate = &last
	}
	out.PrincipalBalance = disbursed.Sub(out.TotalPrincipalPaid)
	return out
}

// SweepOverdueInvoices marks past-due outstanding invoices overdue.
// The scheduler runs it on a cron tick; it returns how many invoices
// were flipped.
func (s *ReportService) SweepOverdueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	due, err := s.reports.OutstandingInvoicesPastDue(ctx, asOf)
	if err != nil {
		return 0, apperrors.Persistence(err)
	}
	updated := 0
	for _, inv := range due {
		if err := s.invoices.UpdateStatus(ctx, inv.ID, domain.InvoiceStatusOverdue); err != nil {
			return updated, apperrors.Persistence(err)
		}
		updated++
	}
	if updated > 0 {
		s.logger.Info("invoices marked overdue", zap.Int("count", updated))
	}
	return updated, nil
}
