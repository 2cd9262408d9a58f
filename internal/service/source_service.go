package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/repository"
	"github.com/propstack/acquisition-engine/pkg/apperrors"
)

// PaymentSourceService manages funding channels. Each source type has
// its own required fields; loan-type sources are created by the loan
// cascade, not through this API.
type PaymentSourceService struct {
	tx         Transactor
	sources    repository.PaymentSourceRepository
	payments   repository.PaymentRepository
	repayments repository.RepaymentRepository
	logger     *zap.Logger
}

func NewPaymentSourceService(tx Transactor, sources repository.PaymentSourceRepository, payments repository.PaymentRepository, repayments repository.RepaymentRepository, logger *zap.Logger) *PaymentSourceService {
	return &PaymentSourceService{tx: tx, sources: sources, payments: payments, repayments: repayments, logger: logger}
}

func validateSourceFields(req *domain.CreatePaymentSourceRequest) error {
	switch req.SourceType {
	case domain.SourceTypeBankAccount:
		if req.BankName == nil || *req.BankName == "" {
			return apperrors.Invalid("bank_name is required for bank_account sources")
		}
		if req.AccountNumber == nil || *req.AccountNumber == "" {
			return apperrors.Invalid("account_number is required for bank_account sources")
		}
	case domain.SourceTypeCreditCard:
		if req.CardNumber == nil || *req.CardNumber == "" {
			return apperrors.Invalid("card_number is required for credit_card sources")
		}
	case domain.SourceTypeDigitalWallet:
		if req.WalletProvider == nil || *req.WalletProvider == "" {
			return apperrors.Invalid("wallet_provider is required for digital_wallet sources")
		}
		if req.WalletIdentifier == nil || *req.WalletIdentifier == "" {
			return apperrors.Invalid("wallet_identifier is required for digital_wallet sources")
		}
	case domain.SourceTypeCash:
		// no extra fields
	case domain.SourceTypeLoan:
		return apperrors.Invalid("loan sources are created automatically with their loan")
	default:
		return apperrors.Invalid(fmt.Sprintf("unknown source_type %q", req.SourceType))
	}
	return nil
}

func (s *PaymentSourceService) Create(ctx context.Context, userID int64, req *domain.CreatePaymentSourceRequest) (*domain.PaymentSource, error) {
	if err := validateSourceFields(req); err != nil {
		return nil, err
	}

	src := &domain.PaymentSource{
		UserID:           userID,
		Name:             req.Name,
		SourceType:       req.SourceType,
		Description:      req.Description,
		IsActive:         true,
		BankName:         req.BankName,
		AccountNumber:    req.AccountNumber,
		IFSCCode:         req.IFSCCode,
		Branch:           req.Branch,
		Lender:           req.Lender,
		CardNumber:       req.CardNumber,
		CardExpiry:       req.CardExpiry,
		WalletProvider:   req.WalletProvider,
		WalletIdentifier: req.WalletIdentifier,
	}
	if req.IsActive != nil {
		src.IsActive = *req.IsActive
	}

	if err := s.sources.Create(ctx, src); err != nil {
		return nil, apperrors.Persistence(err)
	}
	s.logger.Info("payment source created",
		zap.Int64("source_id", src.ID),
		zap.String("source_type", string(src.SourceType)))
	return src, nil
}

func (s *PaymentSourceService) Get(ctx context.Context, id int64) (*domain.PaymentSource, error) {
	src, err := s.sources.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "payment source", id)
	}
	return src, nil
}

func (s *PaymentSourceService) List(ctx context.Context, userID int64) ([]*domain.PaymentSource, error) {
	items, err := s.sources.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Persistence(err)
	}
	return items, nil
}

// Update applies a partial patch. The source type never changes after
// creation.
func (s *PaymentSourceService) Update(ctx context.Context, id int64, req *domain.UpdatePaymentSourceRequest) (*domain.PaymentSource, error) {
	src, err := s.sources.GetByID(ctx, id)
	if err != nil {
		return nil, getErr(err, "payment source", id)
	}

	if req.Name != nil {
		src.Name = *req.Name
	}
	if req.Description != nil {
		src.Description = req.Description
	}
	if req.IsActive != nil {
		src.IsActive = *req.IsActive
	}
	if req.BankName != nil {
		src.BankName = req.BankName
	}
	if req.AccountNumber != nil {
		src.AccountNumber = req.AccountNumber
	}
	if req.IFSCCode != nil {
		src.IFSCCode = req.IFSCCode
	}
	if req.Branch != nil {
		src.Branch = req.Branch
	}
	if req.Lender != nil {
		src.Lender = req.Lender
	}
	if req.CardNumber != nil {
		src.CardNumber = req.CardNumber
	}
	if req.CardExpiry != nil {
		src.CardExpiry = req.CardExpiry
	}
	if req.WalletProvider != nil {
		src.WalletProvider = req.WalletProvider
	}
	if req.WalletIdentifier != nil {
		src.WalletIdentifier = req.WalletIdentifier
	}

	if err := s.sources.Update(ctx, src); err != nil {
		return nil, apperrors.Persistence(err)
	}
	return src, nil
}

// Delete removes a source that no payment or repayment references.
// Loan-type sources are removed through their loan.
func (s *PaymentSourceService) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		src, err := s.sources.GetByID(ctx, id)
		if err != nil {
			return getErr(err, "payment source", id)
		}
		if src.SourceType == domain.SourceTypeLoan {
			return apperrors.DependencyConflict("loan sources are removed with their loan")
		}

		nPay, err := s.payments.CountBySource(ctx, id)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if nPay > 0 {
			return apperrors.DependencyConflict("payment source has payments and cannot be deleted")
		}
		nRep, err := s.repayments.CountBySource(ctx, id)
		if err != nil {
			return apperrors.Persistence(err)
		}
		if nRep > 0 {
			return apperrors.DependencyConflict("payment source has loan repayments and cannot be deleted")
		}

		if err := s.sources.Delete(ctx, id); err != nil {
			return apperrors.Persistence(err)
		}
		s.logger.Info("payment source deleted", zap.Int64("source_id", id))
		return nil
	})
}
