package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// RepaymentService records money paid back against a loan. The
// principal component never exceeds what the loan has actually
// disbursed, read with the loan row locked.
type RepaymentService struct {
	tx         Transactor
	repayments repository.RepaymentRepository
	loans      repository.LoanRepository
	sources    repository.PaymentSourceRepository
	payments   repository.PaymentRepository
	cache      Cache
	logger     *zap.Logger
}

func NewRepaymentService(tx Transactor, repayments repository.RepaymentRepository, loans repository.LoanRepository, sources repository.PaymentSourceRepository, payments repository.PaymentRepository, cache Cache, logger *zap.Logger) *RepaymentService {
	return &RepaymentService{tx: tx, repayments: repayments, loans: loans, sources: sources, payments: payments, cache: cache, logger: logger}
}

func (s *RepaymentService) Create(ctx context.Context, req *domain.CreateRepaymentRequest) (*domain.LoanRepayment, error) {
	var out *domain.LoanRepayment
	var purchaseID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		loan, err := s.loans.GetByIDForUpdate(ctx, req.LoanID)
		if err != nil {
			return getErr(err, "loan", req.LoanID)
		}
		src, err := s.sources.GetByID(ctx, req.SourceID)
		if err != nil {
			return getErr(err, "payment source", req.SourceID)
		}
		if src.SourceType == domain.SourceTypeLoan {
			return apperrors.Invalid("a loan cannot repay itself through a loan source")
		}

		disbursed, err := s.payments.SumByLoan(ctx, req.LoanID)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if req.PrincipalAmount.GreaterThan(disbursed) {
			return apperrors.BalanceExceeded(fmt.Sprintf(
				"principal %s exceeds the loan's disbursed amount %s",
				req.PrincipalAmount.String(), disbursed.String()))
		}

		r := &domain.LoanRepayment{
			LoanID:               req.LoanID,
			SourceID:             req.SourceID,
			PaymentDate:          req.PaymentDate,
			PrincipalAmount:      req.PrincipalAmount,
			InterestAmount:       req.InterestAmount,
			OtherFees:            nullOrZero(req.OtherFees),
			Penalties:            nullOrZero(req.Penalties),
			PaymentMode:          req.PaymentMode,
			TransactionReference: req.TransactionReference,
			Notes:                req.Notes,
		}
		if err := s.repayments.Create(ctx, r); err != nil {
			return apperrors.Persistence(err)
		}
		r.ComputeDerived()
		purchaseID = loan.PurchaseID
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.LoanID, purchaseID)
	s.logger.Info("loan repayment recorded",
		zap.Int64("repayment_id", out.ID),
		zap.Int64("loan_id", out.LoanID),
		zap.String("principal", out.PrincipalAmount.String()))
	return out, nil
}

func (s *RepaymentService) Get(ctx context.Context, id int64) (*domain.LoanRepayment, error) {
	r, err := s.repayments.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "loan repayment", id)
	}
	r.ComputeDerived()
	return r, nil
}

func (s *RepaymentService) List(ctx context.Context, filter domain.RepaymentFilter) ([]*domain.LoanRepayment, error) {
	items, err := s.repayments.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	for _, r := range items {
		r.ComputeDerived()
	}
	return items, nil
}

// Update applies a partial patch, re-running the disbursement check
// when the principal changes.
func (s *RepaymentService) Update(ctx context.Context, id int64, req *domain.UpdateRepaymentRequest) (*domain.LoanRepayment, error) {
	var out *domain.LoanRepayment
	var purchaseID, loanID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.repayments.GetByID(ctx, id)
		if err != nil {
			return getErr(err, "loan repayment", id)
		}
		loan, err := s.loans.GetByIDForUpdate(ctx, r.LoanID)
		if err != nil {
			return getErr(err, "loan", r.LoanID)
		}

		if req.SourceID != nil {
			src, err := s.sources.GetByID(ctx, *req.SourceID)
			if err != nil {
				return getErr(err, "payment source", *req.SourceID)
			}
			if src.SourceType == domain.SourceTypeLoan {
				return apperrors.Invalid("a loan cannot repay itself through a loan source")
			}
			r.SourceID = *req.SourceID
		}
		if req.PaymentDate != nil {
			r.PaymentDate = *req.PaymentDate
		}
		if req.PrincipalAmount != nil {
			if !req.PrincipalAmount.IsPositive() {
				return apperrors.InvalidAmount("principal_amount must be greater than zero")
			}
			disbursed, err := s.payments.SumByLoan(ctx, r.LoanID)
			if err != nil {
				return apperrors.Persistence(err)
			}
			if req.PrincipalAmount.GreaterThan(disbursed) {
				return apperrors.BalanceExceeded(fmt.Sprintf(
					"principal %s exceeds the loan's disbursed amount %s",
					req.PrincipalAmount.String(), disbursed.String()))
			}
			r.PrincipalAmount = *req.PrincipalAmount
		}
		if req.InterestAmount != nil {
			if req.InterestAmount.IsNegative() {
				return apperrors.InvalidAmount("interest_amount cannot be negative")
			}
			r.InterestAmount = *req.InterestAmount
		}
		if req.OtherFees != nil {
			r.OtherFees = *req.OtherFees
		}
		if req.Penalties != nil {
			r.Penalties = *req.Penalties
		}
		if req.PaymentMode != nil {
			r.PaymentMode = *req.PaymentMode
		}
		if req.TransactionReference != nil {
			r.TransactionReference = req.TransactionReference
		}
		if req.Notes != nil {
			r.Notes = req.Notes
		}

		if err := s.repayments.Update(ctx, r); err != nil {
			return apperrors.Persistence(err)
		}
		r.ComputeDerived()
		purchaseID = loan.PurchaseID
		loanID = r.LoanID
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, loanID, purchaseID)
	return out, nil
}

func (s *RepaymentService) Delete(ctx context.Context, id int64) error {
	var purchaseID, loanID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.repayments.GetByID(ctx, id)
		if err != nil {
			return getErr(err, "loan repayment", id)
		}
		loan, err := s.loans.GetByID(ctx, r.LoanID)
		if err != nil {
			return getErr(err, "loan", r.LoanID)
		}
		if err := s.repayments.Delete(ctx, id); err != nil {
			return apperrors.Persistence(err)
		}
		purchaseID = loan.PurchaseID
		loanID = r.LoanID
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, loanID, purchaseID)
	s.logger.Info("loan repayment deleted", zap.Int64("repayment_id", id))
	return nil
}

func (s *RepaymentService) invalidate(ctx context.Context, loanID, purchaseID int64) {
	if err := s.cache.Del(ctx, repaymentSummaryKey(loanID), acquisitionSummaryKey(purchaseID)); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
