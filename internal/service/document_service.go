package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// DocumentService manages references to externally stored files
// attached to properties and purchases.
type DocumentService struct {
	documents  repository.DocumentRepository
	properties repository.PropertyRepository
	purchases  repository.PurchaseRepository
	logger     *zap.Logger
}

func NewDocumentService(documents repository.DocumentRepository, properties repository.PropertyRepository, purchases repository.PurchaseRepository, logger *zap.Logger) *DocumentService {
	return &DocumentService{documents: documents, properties: properties, purchases: purchases, logger: logger}
}

func (s *DocumentService) Create(ctx context.Context, req *domain.CreateDocumentRequest) (*domain.Document, error) {
	if !req.EntityType.Valid() {
		return nil, apperrors.Invalid("entity_type must be property or purchase")
	}

	switch req.EntityType {
	case domain.DocumentEntityProperty:
		if _, err := s.properties.GetByID(ctx, req.EntityID); err != nil {
			return nil, getErr(err, "property", req.EntityID)
		}
	case domain.DocumentEntityPurchase:
		if _, err := s.purchases.GetByID(ctx, req.EntityID); err != nil {
			return nil, getErr(err, "purchase", req.EntityID)
		}
	}

	d := &domain.Document{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		FilePath:   req.FilePath,
		Metadata:   req.Metadata,
	}
	if err := s.documents.Create(ctx, d); err != nil {
		return nil, apperrors.Persistence(err)
	}
	s.logger.Info("document attached",
		zap.Int64("document_id", d.ID),
		zap.String("entity_type", string(d.EntityType)),
		zap.Int64("entity_id", d.EntityID))
	return d, nil
}

func (s *DocumentService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	d, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "document", id)
	}
	return d, nil
}

func (s *DocumentService) List(ctx context.Context, entityType domain.DocumentEntity, entityID int64) ([]*domain.Document, error) {
	if !entityType.Valid() {
		return nil, apperrors.Invalid("entity_type must be property or purchase")
	}
	items, err := s.documents.List(ctx, entityType, entityID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	return items, nil
}

func (s *DocumentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.documents.GetByID(ctx, id); err != nil {
		return getErr(err, "document", id)
	}
	if err := s.documents.Delete(ctx, id); err != nil {
		return apperrors.Persistence(err)
	}
	s.logger.Info("document deleted", zap.Int64("document_id", id))
	return nil
}
