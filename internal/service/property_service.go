package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// PropertyService manages property records and their derived pricing.
type PropertyService struct {
	tx         Transactor
	properties repository.PropertyRepository
	purchases  repository.PurchaseRepository
	loans      repository.LoanRepository
	cache      Cache
	logger     *zap.Logger
}

func NewPropertyService(tx Transactor, properties repository.PropertyRepository, purchases repository.PurchaseRepository, loans repository.LoanRepository, cache Cache, logger *zap.Logger) *PropertyService {
	return &PropertyService{tx: tx, properties: properties, purchases: purchases, loans: loans, cache: cache, logger: logger}
}

func (s *PropertyService) Create(ctx context.Context, req *domain.CreatePropertyRequest) (*domain.Property, error) {
	p := &domain.Property{
		Name:           req.Name,
		Address:        req.Address,
		PropertyType:   req.PropertyType,
		CarpetArea:     req.CarpetArea,
		ExclusiveArea:  req.ExclusiveArea,
		CommonArea:     req.CommonArea,
		FloorNumber:    req.FloorNumber,
		ParkingDetails: req.ParkingDetails,
		Amenities:      req.Amenities,
		InitialRate:    req.InitialRate,
		CurrentRate:    req.CurrentRate,
		Developer:      req.Developer,
		ReraID:         req.ReraID,
	}

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, apperrors.Persistence(err)
	}
	p.ComputeDerived()

	s.logger.Info("property created", zap.Int64("property_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *PropertyService) Get(ctx context.Context, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "property", id)
	}
	p.ComputeDerived()
	return p, nil
}

func (s *PropertyService) List(ctx context.Context, limit, offset int) ([]*domain.Property, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.properties.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	for _, p := range items {
		p.ComputeDerived()
	}
	return items, nil
}

// Update applies a partial patch. Fields left nil in the request keep
// their stored value, so an empty patch is a no-op that still bumps
// updated_at.
func (s *PropertyService) Update(ctx context.Context, id int64, req *domain.UpdatePropertyRequest) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "property", id)
	}

	renamed := req.Name != nil && *req.Name != p.Name
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.PropertyType != nil {
		p.PropertyType = req.PropertyType
	}
	if req.CarpetArea != nil {
		p.CarpetArea = *req.CarpetArea
	}
	if req.ExclusiveArea != nil {
		p.ExclusiveArea = *req.ExclusiveArea
	}
	if req.CommonArea != nil {
		p.CommonArea = *req.CommonArea
	}
	if req.FloorNumber != nil {
		p.FloorNumber = req.FloorNumber
	}
	if req.ParkingDetails != nil {
		p.ParkingDetails = req.ParkingDetails
	}
	if req.Amenities != nil {
		p.Amenities = req.Amenities
	}
	if req.InitialRate != nil {
		if !req.InitialRate.IsPositive() {
			return nil, apperrors.InvalidAmount("initial_rate must be greater than zero")
		}
		p.InitialRate = *req.InitialRate
	}
	if req.CurrentRate != nil {
		if !req.CurrentRate.IsPositive() {
			return nil, apperrors.InvalidAmount("current_rate must be greater than zero")
		}
		p.CurrentRate = *req.CurrentRate
	}
	if req.Developer != nil {
		p.Developer = req.Developer
	}
	if req.ReraID != nil {
		p.ReraID = req.ReraID
	}

	if err := s.properties.Update(ctx, p); err != nil {
		return nil, apperrors.Persistence(err)
	}
	p.ComputeDerived()

	if renamed {
		s.invalidateReportCaches(ctx, id)
	}
	return p, nil
}

// invalidateReportCaches drops cached summaries that embed the property
// name: acquisition summaries for the property's purchases and
// repayment summaries for their loans.
func (s *PropertyService) invalidateReportCaches(ctx context.Context, propertyID int64) {
	items, err := s.purchases.List(ctx, domain.PurchaseFilter{PropertyID: &propertyID, Limit: 500})
	if err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
		return
	}
	keys := make([]string, 0, len(items))
	for _, p := range items {
		keys = append(keys, acquisitionSummaryKey(p.ID))
		propLoans, err := s.loans.List(ctx, domain.LoanFilter{PurchaseID: &p.ID})
		if err != nil {
			s.logger.Warn("report cache invalidation failed", zap.Error(err))
			return
		}
		for _, l := range propLoans {
			keys = append(keys, repaymentSummaryKey(l.ID))
		}
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}

// Delete removes a property. Properties referenced by purchases cannot
// be deleted.
func (s *PropertyService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.properties.GetByID(ctx, id); err != nil {
			return getErr(err, "property", id)
		}
		n, err := s.purchases.CountByProperty(ctx, id)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if n > 0 {
			return apperrors.DependencyConflict("property has purchases and cannot be deleted")
		}
		if err := s.properties.Delete(ctx, id); err != nil {
			return apperrors.Persistence(err)
		}
		s.logger.Info("property deleted", zap.Int64("property_id", id))
		return nil
	})
}
