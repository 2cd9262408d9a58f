package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// InvoiceService manages invoices raised against purchases. The sum of
// non-cancelled invoice amounts on a purchase never exceeds that
// purchase's total sale cost; the check runs with the purchase row
// locked so concurrent invoicing cannot overshoot.
type InvoiceService struct {
	tx        Transactor
	invoices  repository.InvoiceRepository
	purchases repository.PurchaseRepository
	payments  repository.PaymentRepository
	cache     Cache
	logger    *zap.Logger
}

func NewInvoiceService(tx Transactor, invoices repository.InvoiceRepository, purchases repository.PurchaseRepository, payments repository.PaymentRepository, cache Cache, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{tx: tx, invoices: invoices, purchases: purchases, payments: payments, cache: cache, logger: logger}
}

func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.Invoice, error) {
	var out *domain.Invoice
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		purchase, err := s.purchases.GetByIDForUpdate(ctx, req.PurchaseID)
		if err != nil {
			return getErr(err, "purchase", req.PurchaseID)
		}
		purchase.ComputeDerived()

		exists, err := s.invoices.NumberExists(ctx, req.PurchaseID, req.InvoiceNumber, 0)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if exists {
			return apperrors.Duplicate(fmt.Sprintf("invoice number %q already exists for this purchase", req.InvoiceNumber))
		}

		invoiced, err := s.invoices.SumAmountByPurchase(ctx, req.PurchaseID, 0)
		if err != nil {
			return apperrors.Persistence(err)
		}
		remaining := purchase.TotalSaleCost.Sub(invoiced)
		if req.Amount.GreaterThan(remaining) {
			return apperrors.BalanceExceeded(fmt.Sprintf(
				"invoice amount %s exceeds remaining invoiceable balance %s (total sale cost %s)",
				req.Amount.String(), remaining.String(), purchase.TotalSaleCost.String()))
		}

		inv := &domain.Invoice{
			PurchaseID:    req.PurchaseID,
			InvoiceNumber: req.InvoiceNumber,
			InvoiceDate:   req.InvoiceDate,
			DueDate:       req.DueDate,
			Amount:        req.Amount,
			Status:        domain.InvoiceStatusPending,
			Milestone:     req.Milestone,
			Description:   req.Description,
		}
		if err := s.invoices.Create(ctx, inv); err != nil {
			return apperrors.Persistence(err)
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice created",
		zap.Int64("invoice_id", out.ID),
		zap.Int64("purchase_id", out.PurchaseID),
		zap.String("amount", out.Amount.String()))
	return out, nil
}

func (s *InvoiceService) Get(ctx context.Context, id int64) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "invoice", id)
	}
	paid, err := s.payments.SumByInvoice(ctx, id, 0)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	inv.PaidAmount = paid
	return inv, nil
}

func (s *InvoiceService) List(ctx context.Context, filter domain.InvoiceFilter) ([]*domain.Invoice, error) {
	items, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	for _, inv := range items {
		paid, err := s.payments.SumByInvoice(ctx, inv.ID, 0)
		if err != nil {
			return nil, apperrors.Persistence(err)
		}
		inv.PaidAmount = paid
	}
	return items, nil
}

// Update applies a partial patch. An amount change re-runs the purchase
// ceiling check excluding this invoice's prior amount, and may not drop
// the amount below what is already paid. Status transitions other than
// cancellation are derived from payments, not set directly.
func (s *InvoiceService) Update(ctx context.Context, id int64, req *domain.UpdateInvoiceRequest) (*domain.Invoice, error) {
	var out *domain.Invoice
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetByIDForUpdate(ctx, id)
		if err != nil {
			return getErr(err, "invoice", id)
		}

		if req.InvoiceNumber != nil && *req.InvoiceNumber != inv.InvoiceNumber {
			exists, err := s.invoices.NumberExists(ctx, inv.PurchaseID, *req.InvoiceNumber, id)
			if err != nil {
				return apperrors.Persistence(err)
			}
			if exists {
				return apperrors.Duplicate(fmt.Sprintf("invoice number %q already exists for this purchase", *req.InvoiceNumber))
			}
			inv.InvoiceNumber = *req.InvoiceNumber
		}
		if req.InvoiceDate != nil {
			inv.InvoiceDate = *req.InvoiceDate
		}
		if req.DueDate != nil {
			inv.DueDate = req.DueDate
		}
		if req.Milestone != nil {
			inv.Milestone = req.Milestone
		}
		if req.Description != nil {
			inv.Description = req.Description
		}

		paid, err := s.payments.SumByInvoice(ctx, id, 0)
		if err != nil {
			return apperrors.Persistence(err)
		}

		if req.Amount != nil {
			if !req.Amount.IsPositive() {
				return apperrors.InvalidAmount("invoice amount must be greater than zero")
			}
			purchase, err := s.purchases.GetByIDForUpdate(ctx, inv.PurchaseID)
			if err != nil {
				return getErr(err, "purchase", inv.PurchaseID)
			}
			purchase.ComputeDerived()

			otherInvoiced, err := s.invoices.SumAmountByPurchase(ctx, inv.PurchaseID, id)
			if err != nil {
				return apperrors.Persistence(err)
			}
			remaining := purchase.TotalSaleCost.Sub(otherInvoiced)
			if req.Amount.GreaterThan(remaining) {
				return apperrors.BalanceExceeded(fmt.Sprintf(
					"invoice amount %s exceeds remaining invoiceable balance %s",
					req.Amount.String(), remaining.String()))
			}
			if req.Amount.LessThan(paid) {
				return apperrors.BalanceExceeded(fmt.Sprintf(
					"invoice amount %s cannot drop below the %s already paid",
					req.Amount.String(), paid.String()))
			}
			inv.Amount = *req.Amount
		}

		if req.Status != nil {
			if *req.Status != domain.InvoiceStatusCancelled {
				return apperrors.Invalid("invoice status is derived from payments; only cancellation may be set directly")
			}
			if paid.IsPositive() {
				return apperrors.DependencyConflict("invoice with payments cannot be cancelled")
			}
			inv.Status = domain.InvoiceStatusCancelled
		} else {
			inv.Status = inv.StatusForPaid(paid)
		}

		if err := s.invoices.Update(ctx, inv); err != nil {
			return apperrors.Persistence(err)
		}
		inv.PaidAmount = paid
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Del(ctx, acquisitionSummaryKey(out.PurchaseID)); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
	return out, nil
}

// Delete removes an invoice that has no payments.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	var purchaseID int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetByID(ctx, id)
		if err != nil {
			return getErr(err, "invoice", id)
		}
		n, err := s.payments.CountByInvoice(ctx, id)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if n > 0 {
			return apperrors.DependencyConflict("invoice has payments and cannot be deleted")
		}
		if err := s.invoices.Delete(ctx, id); err != nil {
			return apperrors.Persistence(err)
		}
		purchaseID = inv.PurchaseID
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.cache.Del(ctx, acquisitionSummaryKey(purchaseID)); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
	s.logger.Info("invoice deleted", zap.Int64("invoice_id", id))
	return nil
}
