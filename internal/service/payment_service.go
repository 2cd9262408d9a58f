package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// PaymentService records money applied to invoices. Two ceilings are
// enforced inside one transaction: payments on an invoice never exceed
// the invoice amount, and payments drawn through a loan source never
// exceed that loan's sanction amount. Both parent rows are locked
// before the sums are read.
type PaymentService struct {
	tx       Transactor
	payments repository.PaymentRepository
	invoices repository.InvoiceRepository
	sources  repository.PaymentSourceRepository
	loans    repository.LoanRepository
	cache    Cache
	logger   *zap.Logger
}

func NewPaymentService(tx Transactor, payments repository.PaymentRepository, invoices repository.InvoiceRepository, sources repository.PaymentSourceRepository, loans repository.LoanRepository, cache Cache, logger *zap.Logger) *PaymentService {
	return &PaymentService{tx: tx, payments: payments, invoices: invoices, sources: sources, loans: loans, cache: cache, logger: logger}
}

// checkSourceHeadroom enforces the loan-source disbursement ceiling.
// excludePaymentID removes the payment's own prior amount from the sum
// on update; 0 excludes nothing.
func (s *PaymentService) checkSourceHeadroom(ctx context.Context, src *domain.PaymentSource, amount decimal.Decimal, excludePaymentID int64) error {
	if src.SourceType != domain.SourceTypeLoan || src.LoanID == nil {
		return nil
	}
	loan, err := s.loans.GetByIDForUpdate(ctx, *src.LoanID)
	if err != nil {
		return getErr(err, "loan", *src.LoanID)
	}
	drawn, err := s.payments.SumBySource(ctx, src.ID, excludePaymentID)
	if err != nil {
		return apperrors.Persistence(err)
	}
	headroom := loan.SanctionAmount.Sub(drawn)
	if amount.GreaterThan(headroom) {
		return apperrors.BalanceExceeded(fmt.Sprintf(
			"payment %s exceeds the loan's remaining sanctioned headroom %s (sanctioned %s)",
			amount.String(), headroom.String(), loan.SanctionAmount.String()))
	}
	return nil
}

func (s *PaymentService) Create(ctx context.Context, userID int64, req *domain.CreatePaymentRequest) (*domain.Payment, error) {
	var out *domain.Payment
	var purchaseID, loanID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetByIDForUpdate(ctx, req.InvoiceID)
		if err != nil {
			return getErr(err, "invoice", req.InvoiceID)
		}
		if inv.Status == domain.InvoiceStatusCancelled {
			return apperrors.Invalid("cancelled invoices cannot accept payments")
		}

		src, err := s.sources.GetByID(ctx, req.SourceID)
		if err != nil {
			return getErr(err, "payment source", req.SourceID)
		}
		if !src.IsActive {
			return apperrors.Invalid("payment source is inactive")
		}

		paid, err := s.payments.SumByInvoice(ctx, req.InvoiceID, 0)
		if err != nil {
			return apperrors.Persistence(err)
		}
		outstanding := inv.Outstanding(paid)
		if req.Amount.GreaterThan(outstanding) {
			return apperrors.BalanceExceeded(fmt.Sprintf(
				"payment %s exceeds the invoice's outstanding balance %s",
				req.Amount.String(), outstanding.String()))
		}

		if err := s.checkSourceHeadroom(ctx, src, req.Amount, 0); err != nil {
			return err
		}

		p := &domain.Payment{
			UserID:               userID,
			SourceID:             req.SourceID,
			InvoiceID:            req.InvoiceID,
			PaymentDate:          req.PaymentDate,
			Amount:               req.Amount,
			PaymentMode:          req.PaymentMode,
			TransactionReference: req.TransactionReference,
			ReceiptDate:          req.ReceiptDate,
			ReceiptNumber:        req.ReceiptNumber,
			Notes:                req.Notes,
		}
		if err := s.payments.Create(ctx, p); err != nil {
			return apperrors.Persistence(err)
		}

		status := inv.StatusForPaid(paid.Add(req.Amount))
		if status != inv.Status {
			if err := s.invoices.UpdateStatus(ctx, inv.ID, status); err != nil {
				return apperrors.Persistence(err)
			}
		}

		purchaseID = inv.PurchaseID
		if src.LoanID != nil {
			loanID = *src.LoanID
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, purchaseID, loanID)
	s.logger.Info("payment recorded",
		zap.Int64("payment_id", out.ID),
		zap.Int64("invoice_id", out.InvoiceID),
		zap.String("amount", out.Amount.String()))
	return out, nil
}

func (s *PaymentService) Get(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "payment", id)
	}
	return p, nil
}

func (s *PaymentService) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	items, err := s.payments.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	return items, nil
}

// Update applies a partial patch, re-running both ceiling checks with
// this payment's own prior amount excluded from the sums.
func (s *PaymentService) Update(ctx context.Context, id int64, req *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	var out *domain.Payment
	var purchaseID, loanID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.payments.GetByID(ctx, id)
		if err != nil {
			return getErr(err, "payment", id)
		}

		inv, err := s.invoices.GetByIDForUpdate(ctx, p.InvoiceID)
		if err != nil {
			return getErr(err, "invoice", p.InvoiceID)
		}

		if req.SourceID != nil {
			p.SourceID = *req.SourceID
		}
		src, err := s.sources.GetByID(ctx, p.SourceID)
		if err != nil {
			return getErr(err, "payment source", p.SourceID)
		}

		if req.PaymentDate != nil {
			p.PaymentDate = *req.PaymentDate
		}
		if req.Amount != nil {
			if !req.Amount.IsPositive() {
				return apperrors.InvalidAmount("payment amount must be greater than zero")
			}
			p.Amount = *req.Amount
		}
		if req.PaymentMode != nil {
			p.PaymentMode = *req.PaymentMode
		}
		if req.TransactionReference != nil {
			p.TransactionReference = req.TransactionReference
		}
		if req.ReceiptDate != nil {
			p.ReceiptDate = req.ReceiptDate
		}
		if req.ReceiptNumber != nil {
			p.ReceiptNumber = req.ReceiptNumber
		}
		if req.Notes != nil {
			p.Notes = req.Notes
		}

		othersPaid, err := s.payments.SumByInvoice(ctx, p.InvoiceID, id)
		if err != nil {
			return apperrors.Persistence(err)
		}
		outstanding := inv.Outstanding(othersPaid)
		if p.Amount.GreaterThan(outstanding) {
			return apperrors.BalanceExceeded(fmt.Sprintf(
				"payment %s exceeds the invoice's outstanding balance %s",
				p.Amount.String(), outstanding.String()))
		}

		if err := s.checkSourceHeadroom(ctx, src, p.Amount, id); err != nil {
			return err
		}

		if err := s.payments.Update(ctx, p); err != nil {
			return apperrors.Persistence(err)
		}

		status := inv.StatusForPaid(othersPaid.Add(p.Amount))
		if status != inv.Status {
			if err := s.invoices.UpdateStatus(ctx, inv.ID, status); err != nil {
				return apperrors.Persistence(err)
			}
		}

		purchaseID = inv.PurchaseID
		if src.LoanID != nil {
			loanID = *src.LoanID
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, purchaseID, loanID)
	return out, nil
}

// Delete removes a payment and re-derives the invoice status from the
// remaining payments.
func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	var purchaseID, loanID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.payments.GetByID(ctx, id)
		if err != nil {
			return getErr(err, "payment", id)
		}
		inv, err := s.invoices.GetByIDForUpdate(ctx, p.InvoiceID)
		if err != nil {
			return getErr(err, "invoice", p.InvoiceID)
		}

		if err := s.payments.Delete(ctx, id); err != nil {
			return apperrors.Persistence(err)
		}

		remaining, err := s.payments.SumByInvoice(ctx, p.InvoiceID, 0)
		if err != nil {
			return apperrors.Persistence(err)
		}
		status := inv.StatusForPaid(remaining)
		if status != inv.Status {
			if err := s.invoices.UpdateStatus(ctx, inv.ID, status); err != nil {
				return apperrors.Persistence(err)
			}
		}

		purchaseID = inv.PurchaseID
		if src, err := s.sources.GetByID(ctx, p.SourceID); err == nil && src.LoanID != nil {
			loanID = *src.LoanID
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, purchaseID, loanID)
	s.logger.Info("payment deleted", zap.Int64("payment_id", id))
	return nil
}

func (s *PaymentService) invalidate(ctx context.Context, purchaseID, loanID int64) {
	keys := []string{acquisitionSummaryKey(purchaseID)}
	if loanID != 0 {
		keys = append(keys, repaymentSummaryKey(loanID))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
