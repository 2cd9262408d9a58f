package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// PurchaseService manages purchases, the root entity of the billing
// side: invoices draw against a purchase's total sale cost and loans
// draw against its total cost.
type PurchaseService struct {
	tx        Transactor
	purchases repository.PurchaseRepository
	props     repository.PropertyRepository
	invoices  repository.InvoiceRepository
	loans     repository.LoanRepository
	cache     Cache
	logger    *zap.Logger
}

func NewPurchaseService(tx Transactor, purchases repository.PurchaseRepository, props repository.PropertyRepository, invoices repository.InvoiceRepository, loans repository.LoanRepository, cache Cache, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{tx: tx, purchases: purchases, props: props, invoices: invoices, loans: loans, cache: cache, logger: logger}
}

func (s *PurchaseService) Create(ctx context.Context, userID int64, req *domain.CreatePurchaseRequest) (*domain.Purchase, error) {
	prop, err := s.props.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, getErr(err, "property", req.PropertyID)
	}

	p := &domain.Purchase{
		PropertyID:       req.PropertyID,
		UserID:           userID,
		BaseCost:         req.BaseCost,
		OtherCharges:     req.OtherCharges,
		IFMS:             req.IFMS,
		LeaseRent:        req.LeaseRent,
		AMC:              req.AMC,
		GST:              req.GST,
		PurchaseDate:     req.PurchaseDate,
		RegistrationDate: req.RegistrationDate,
		PossessionDate:   req.PossessionDate,
		Seller:           req.Seller,
		Remarks:          req.Remarks,
	}

	if err := s.purchases.Create(ctx, p); err != nil {
		return nil, apperrors.Persistence(err)
	}
	p.PropertyName = prop.Name
	p.ComputeDerived()

	s.logger.Info("purchase created",
		zap.Int64("purchase_id", p.ID),
		zap.Int64("property_id", p.PropertyID),
		zap.String("total_sale_cost", p.TotalSaleCost.String()))
	return p, nil
}

func (s *PurchaseService) Get(ctx context.Context, id int64) (*domain.Purchase, error) {
	p, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "purchase", id)
	}
	p.ComputeDerived()
	return p, nil
}

func (s *PurchaseService) List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	items, err := s.purchases.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	for _, p := range items {
		p.ComputeDerived()
	}
	return items, nil
}

// Update applies a partial patch. Shrinking the cost breakdown is
// rejected when existing non-cancelled invoices would exceed the new
// total sale cost, or when an existing loan's sanction would exceed
// the new total cost.
func (s *PurchaseService) Update(ctx context.Context, id int64, req *domain.UpdatePurchaseRequest) (*domain.Purchase, error) {
	var out *domain.Purchase
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.purchases.GetByIDForUpdate(ctx, id)
		if err != nil {
			return getErr(err, "purchase", id)
		}

		if req.BaseCost != nil {
			if !req.BaseCost.IsPositive() {
				return apperrors.InvalidAmount("base_cost must be greater than zero")
			}
			p.BaseCost = *req.BaseCost
		}
		if req.OtherCharges != nil {
			p.OtherCharges = *req.OtherCharges
		}
		if req.IFMS != nil {
			p.IFMS = *req.IFMS
		}
		if req.LeaseRent != nil {
			p.LeaseRent = *req.LeaseRent
		}
		if req.AMC != nil {
			p.AMC = *req.AMC
		}
		if req.GST != nil {
			p.GST = *req.GST
		}
		if req.PurchaseDate != nil {
			p.PurchaseDate = *req.PurchaseDate
		}
		if req.RegistrationDate != nil {
			p.RegistrationDate = req.RegistrationDate
		}
		if req.PossessionDate != nil {
			p.PossessionDate = req.PossessionDate
		}
		if req.Seller != nil {
			p.Seller = req.Seller
		}
		if req.Remarks != nil {
			p.Remarks = req.Remarks
		}

		p.ComputeDerived()

		invoiced, err := s.invoices.SumAmountByPurchase(ctx, id, 0)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if invoiced.GreaterThan(p.TotalSaleCost) {
			return apperrors.BalanceExceeded(fmt.Sprintf(
				"existing invoices total %s, which exceeds the updated total sale cost %s",
				invoiced.String(), p.TotalSaleCost.String()))
		}

		existingLoans, err := s.loans.List(ctx, domain.LoanFilter{PurchaseID: &id})
		if err != nil {
			return apperrors.Persistence(err)
		}
		for _, l := range existingLoans {
			if l.SanctionAmount.GreaterThan(p.TotalCost) {
				return apperrors.BalanceExceeded(fmt.Sprintf(
					"loan %d sanction %s exceeds the updated total cost %s",
					l.ID, l.SanctionAmount.String(), p.TotalCost.String()))
			}
		}

		if err := s.purchases.Update(ctx, p); err != nil {
			return apperrors.Persistence(err)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Del(ctx, acquisitionSummaryKey(id)); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
	return out, nil
}

// Delete removes a purchase. Purchases with invoices or loans cannot be
// deleted; those must go first.
func (s *PurchaseService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.purchases.GetByID(ctx, id); err != nil {
			return getErr(err, "purchase", id)
		}

		nInv, err := s.invoices.CountByPurchase(ctx, id)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if nInv > 0 {
			return apperrors.DependencyConflict("purchase has invoices and cannot be deleted")
		}
		nLoans, err := s.loans.CountByPurchase(ctx, id)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if nLoans > 0 {
			return apperrors.DependencyConflict("purchase has loans and cannot be deleted")
		}

		if err := s.purchases.Delete(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound("purchase", id)
			}
			return apperrors.Persistence(err)
		}
		s.logger.Info("purchase deleted", zap.Int64("purchase_id", id))
		return nil
	})
}
