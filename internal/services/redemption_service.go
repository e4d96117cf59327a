package services

import (
	"context"

	"campusperks/internal/codec"
	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"
	"campusperks/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// QRRenderer turns an opaque payload into a displayable image. Pure
// function, no state.
type QRRenderer interface {
	RenderBase64(payload string) (string, error)
}

// RedemptionService is the ledger's write and read surface for students.
// Creation is transactional: the benefit's stock decrement and the ledger
// insert land together or not at all.
type RedemptionService interface {
	Create(ctx context.Context, userID, benefitID primitive.ObjectID) (*models.CreateRedemptionResponse, error)

	// List returns ledger records visible to the principal. The scope is
	// derived from resolved roles, never from request parameters: admins see
	// everything, suppliers their own records, users their own.
	List(ctx context.Context, principalID primitive.ObjectID, roles models.RoleSet, filter models.RedemptionFilter, params *utils.PaginationParams) ([]*models.Redemption, int64, error)
}

type redemptionService struct {
	tx             TxRunner
	benefitRepo    interfaces.BenefitRepository
	redemptionRepo interfaces.RedemptionRepository
	codec          *codec.Codec
	qr             QRRenderer
	logger         *logger.Logger
}

func NewRedemptionService(
	tx TxRunner,
	benefitRepo interfaces.BenefitRepository,
	redemptionRepo interfaces.RedemptionRepository,
	payloadCodec *codec.Codec,
	qr QRRenderer,
	log *logger.Logger,
) RedemptionService {
	return &redemptionService{
		tx:             tx,
		benefitRepo:    benefitRepo,
		redemptionRepo: redemptionRepo,
		codec:          payloadCodec,
		qr:             qr,
		logger:         log,
	}
}

func (s *redemptionService) Create(ctx context.Context, userID, benefitID primitive.ObjectID) (*models.CreateRedemptionResponse, error) {
	benefit, err := s.benefitRepo.GetByID(ctx, benefitID)
	if err != nil {
		return nil, err
	}

	if benefit.Status != models.BenefitStatusActive {
		return nil, apperrors.ErrInactive
	}
	if benefit.Stock <= 0 {
		return nil, apperrors.ErrOutOfStock
	}

	redemption := &models.Redemption{
		BenefitID:    benefit.ID,
		SupplierID:   benefit.SupplierID,
		UserID:       userID,
		BenefitTitle: benefit.Title,
		Code:         utils.GenerateRedemptionCode(),
		PointPrice:   benefit.PointPrice,
		RewardPoints: benefit.RewardPoints,
	}

	// Stock decrement and ledger insert are one transaction: no state where
	// stock dropped but no record exists, or the reverse. The decrement is
	// conditional, so a race past the pre-checks above still cannot push
	// stock negative.
	_, err = s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := s.benefitRepo.DecrementStock(sessCtx, benefit.ID); err != nil {
			return nil, err
		}
		if err := s.redemptionRepo.Create(sessCtx, redemption); err != nil {
			return nil, err
		}
		if err := s.benefitRepo.IncrementRedemptions(sessCtx, benefit.ID); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, storeErr(err)
	}

	s.logger.LogRedemptionEvent(redemption.ID, "created", map[string]interface{}{
		"benefit_id": benefit.ID.Hex(),
		"user_id":    userID.Hex(),
	})

	payload := s.codec.Encode(redemption.ID)

	response := &models.CreateRedemptionResponse{
		RedemptionID: redemption.ID.Hex(),
		Code:         redemption.Code,
		Payload:      payload,
	}

	if s.qr != nil {
		image, err := s.qr.RenderBase64(payload)
		if err != nil {
			// The payload is still usable for manual entry.
			s.logger.WithError(err).WithRedemptionID(redemption.ID).Warn("QR rendering failed")
		} else {
			response.QRImage = image
		}
	}

	return response, nil
}

func (s *redemptionService) List(ctx context.Context, principalID primitive.ObjectID, roles models.RoleSet, filter models.RedemptionFilter, params *utils.PaginationParams) ([]*models.Redemption, int64, error) {
	scope := scopeForPrincipal(principalID, roles)
	return s.redemptionRepo.List(ctx, scope, filter, params)
}

// scopeForPrincipal picks the widest scope the roles allow. Admin wins over
// supplier wins over user for principals holding several roles.
func scopeForPrincipal(principalID primitive.ObjectID, roles models.RoleSet) models.RedemptionScope {
	switch {
	case roles.Has(models.RoleAdmin):
		return models.ScopeAll()
	case roles.Has(models.RoleSupplier):
		return models.ScopeSupplier(principalID)
	default:
		return models.ScopeUser(principalID)
	}
}
