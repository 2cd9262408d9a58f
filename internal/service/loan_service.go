package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// LoanService manages loans and the loan-type payment source that
// shadows each of them. Creating a loan creates its source in the same
// transaction; updating propagates name, lender and active state; and
// a loan cannot outlive repayments or payments drawn through its
// source.
type LoanService struct {
	tx         Transactor
	loans      repository.LoanRepository
	purchases  repository.PurchaseRepository
	sources    repository.PaymentSourceRepository
	payments   repository.PaymentRepository
	repayments repository.RepaymentRepository
	cache      Cache
	logger     *zap.Logger
}

func NewLoanService(tx Transactor, loans repository.LoanRepository, purchases repository.PurchaseRepository, sources repository.PaymentSourceRepository, payments repository.PaymentRepository, repayments repository.RepaymentRepository, cache Cache, logger *zap.Logger) *LoanService {
	return &LoanService{tx: tx, loans: loans, purchases: purchases, sources: sources, payments: payments, repayments: repayments, cache: cache, logger: logger}
}

func nullOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func (s *LoanService) Create(ctx context.Context, userID int64, req *domain.CreateLoanRequest) (*domain.Loan, error) {
	var out *domain.Loan
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		purchase, err := s.purchases.GetByIDForUpdate(ctx, req.PurchaseID)
		if err != nil {
			return getErr(err, "purchase", req.PurchaseID)
		}
		purchase.ComputeDerived()

		if req.SanctionAmount.GreaterThan(purchase.TotalCost) {
			return apperrors.BalanceExceeded(fmt.Sprintf(
				"sanction amount %s exceeds the purchase total cost %s",
				req.SanctionAmount.String(), purchase.TotalCost.String()))
		}

		l := &domain.Loan{
			UserID:              &userID,
			PurchaseID:          req.PurchaseID,
			Name:                req.Name,
			Institution:         req.Institution,
			Agent:               req.Agent,
			SanctionDate:        req.SanctionDate,
			SanctionAmount:      req.SanctionAmount,
			ProcessingFee:       nullOrZero(req.ProcessingFee),
			OtherCharges:        nullOrZero(req.OtherCharges),
			LoanSanctionCharges: nullOrZero(req.LoanSanctionCharges),
			InterestRate:        req.InterestRate,
			TenureMonths:        req.TenureMonths,
			IsActive:            true,
		}
		if err := s.loans.Create(ctx, l); err != nil {
			return apperrors.Persistence(err)
		}

		src := &domain.PaymentSource{
			UserID:     userID,
			Name:       "Loan: " + l.Name,
			SourceType: domain.SourceTypeLoan,
			IsActive:   true,
			LoanID:     &l.ID,
			Lender:     &l.Institution,
		}
		if err := s.sources.Create(ctx, src); err != nil {
			return apperrors.Persistence(err)
		}

		l.PropertyName = purchase.PropertyName
		l.ComputeDerived()
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("loan created",
		zap.Int64("loan_id", out.ID),
		zap.Int64("purchase_id", out.PurchaseID),
		zap.String("sanction_amount", out.SanctionAmount.String()))
	return out, nil
}

func (s *LoanService) Get(ctx context.Context, id int64) (*domain.Loan, error) {
	l, err := s.loans.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "loan", id)
	}
	disbursed, err := s.payments.SumByLoan(ctx, id)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	l.TotalDisbursedAmount = disbursed
	l.ComputeDerived()
	return l, nil
}

func (s *LoanService) List(ctx context.Context, filter domain.LoanFilter) ([]*domain.Loan, error) {
	items, err := s.loans.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	for _, l := range items {
		disbursed, err := s.payments.SumByLoan(ctx, l.ID)
		if err != nil {
			return nil, apperrors.Persistence(err)
		}
		l.TotalDisbursedAmount = disbursed
		l.ComputeDerived()
	}
	return items, nil
}

// Update applies a partial patch. A sanction amount change re-runs the
// purchase ceiling check and may not drop below what is already
// disbursed. Name, institution and active state propagate to the
// linked payment source.
func (s *LoanService) Update(ctx context.Context, id int64, req *domain.UpdateLoanRequest) (*domain.Loan, error) {
	var out *domain.Loan
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := s.loans.GetByIDForUpdate(ctx, id)
		if err != nil {
			return getErr(err, "loan", id)
		}

		if req.Name != nil {
			l.Name = *req.Name
		}
		if req.Institution != nil {
			l.Institution = *req.Institution
		}
		if req.Agent != nil {
			l.Agent = req.Agent
		}
		if req.SanctionDate != nil {
			l.SanctionDate = *req.SanctionDate
		}
		if req.ProcessingFee != nil {
			l.ProcessingFee = *req.ProcessingFee
		}
		if req.OtherCharges != nil {
			l.OtherCharges = *req.OtherCharges
		}
		if req.LoanSanctionCharges != nil {
			l.LoanSanctionCharges = *req.LoanSanctionCharges
		}
		if req.InterestRate != nil {
			if req.InterestRate.IsNegative() {
				return apperrors.InvalidAmount("interest_rate cannot be negative")
			}
			l.InterestRate = *req.InterestRate
		}
		if req.TenureMonths != nil {
			if *req.TenureMonths <= 0 {
				return apperrors.Invalid("tenure_months must be greater than zero")
			}
			l.TenureMonths = *req.TenureMonths
		}
		if req.IsActive != nil {
			l.IsActive = *req.IsActive
		}

		disbursed, err := s.payments.SumByLoan(ctx, id)
		if err != nil {
			return apperrors.Persistence(err)
		}

		if req.SanctionAmount != nil {
			if !req.SanctionAmount.IsPositive() {
				return apperrors.InvalidAmount("sanction_amount must be greater than zero")
			}
			purchase, err := s.purchases.GetByIDForUpdate(ctx, l.PurchaseID)
			if err != nil {
				return getErr(err, "purchase", l.PurchaseID)
			}
			purchase.ComputeDerived()
			if req.SanctionAmount.GreaterThan(purchase.TotalCost) {
				return apperrors.BalanceExceeded(fmt.Sprintf(
					"sanction amount %s exceeds the purchase total cost %s",
					req.SanctionAmount.String(), purchase.TotalCost.String()))
			}
			if req.SanctionAmount.LessThan(disbursed) {
				return apperrors.BalanceExceeded(fmt.Sprintf(
					"sanction amount %s cannot drop below the %s already disbursed",
					req.SanctionAmount.String(), disbursed.String()))
			}
			l.SanctionAmount = *req.SanctionAmount
		}

		if err := s.loans.Update(ctx, l); err != nil {
			return apperrors.Persistence(err)
		}

		src, err := s.sources.GetByLoanID(ctx, id)
		switch {
		case err == nil:
			src.Name = "Loan: " + l.Name
			src.Lender = &l.Institution
			src.IsActive = l.IsActive
			if err := s.sources.Update(ctx, src); err != nil {
				return apperrors.Persistence(err)
			}
		case errors.Is(err, sql.ErrNoRows):
			// Loan created before source linking existed; nothing to sync.
		default:
			return apperrors.Persistence(err)
		}

		l.TotalDisbursedAmount = disbursed
		l.ComputeDerived()
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Del(ctx, repaymentSummaryKey(id), acquisitionSummaryKey(out.PurchaseID)); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
	return out, nil
}

// Delete removes a loan and its linked payment source. It is blocked
// while repayments exist or payments have been drawn through the
// source.
func (s *LoanService) Delete(ctx context.Context, id int64) error {
	var purchaseID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := s.loans.GetByID(ctx, id)
		if err != nil {
			return getErr(err, "loan", id)
		}
		purchaseID = l.PurchaseID

		n, err := s.repayments.CountByLoan(ctx, id)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if n > 0 {
			return apperrors.DependencyConflict("loan has repayments and cannot be deleted")
		}

		src, err := s.sources.GetByLoanID(ctx, id)
		switch {
		case err == nil:
			nPay, err := s.payments.CountBySource(ctx, src.ID)
			if err != nil {
				return apperrors.Persistence(err)
			}
			if nPay > 0 {
				return apperrors.DependencyConflict("payments were drawn through this loan's source; loan cannot be deleted")
			}
			if err := s.sources.Delete(ctx, src.ID); err != nil {
				return apperrors.Persistence(err)
			}
		case errors.Is(err, sql.ErrNoRows):
			// no linked source
		default:
			return apperrors.Persistence(err)
		}

		if err := s.loans.Delete(ctx, id); err != nil {
			return apperrors.Persistence(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.cache.Del(ctx, repaymentSummaryKey(id), acquisitionSummaryKey(purchaseID)); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("loan deleted", zap.Int64("loan_id", id))
	return nil
}
