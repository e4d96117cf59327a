package services

import (
	"context"
	"time"

	"campusperks/internal/codec"
	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	apperrors "campusperks/pkg/errors"
	"campusperks/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ValidationService consumes scanned payloads at the counter. Exactly one
// concurrent validation of the same redemption succeeds; every other
// attempt gets a definitive refusal.
type ValidationService interface {
	Validate(ctx context.Context, validatorID primitive.ObjectID, payload string) (*models.ValidateRedemptionResponse, error)
}

type validationService struct {
	tx             TxRunner
	identity       IdentityService
	redemptionRepo interfaces.RedemptionRepository
	userRepo       interfaces.UserRepository
	codec          *codec.Codec
	notifier       Notifier
	logger         *logger.Logger
}

func NewValidationService(
	tx TxRunner,
	identity IdentityService,
	redemptionRepo interfaces.RedemptionRepository,
	userRepo interfaces.UserRepository,
	payloadCodec *codec.Codec,
	notifier Notifier,
	log *logger.Logger,
) ValidationService {
	return &validationService{
		tx:             tx,
		identity:       identity,
		redemptionRepo: redemptionRepo,
		userRepo:       userRepo,
		codec:          payloadCodec,
		notifier:       notifier,
		logger:         log,
	}
}

func (s *validationService) Validate(ctx context.Context, validatorID primitive.ObjectID, payload string) (*models.ValidateRedemptionResponse, error) {
	redemptionID, err := s.codec.Decode(payload)
	if err != nil {
		s.logger.LogSecurityEvent("malformed_redemption_payload", "warning", map[string]interface{}{
			"validator_id": validatorID.Hex(),
		})
		return nil, err
	}

	// Principals holding no validating role are refused before the ledger
	// is touched, so they cannot probe which payloads exist.
	roles := s.identity.Resolve(ctx, validatorID)
	if !roles.Has(models.RoleAdmin) && !roles.Has(models.RoleSupplier) {
		s.logger.LogSecurityEvent("validation_forbidden", "warning", map[string]interface{}{
			"validator_id": validatorID.Hex(),
		})
		return nil, apperrors.ErrForbidden
	}

	redemption, err := s.redemptionRepo.GetByID(ctx, redemptionID)
	if err != nil {
		return nil, err
	}

	if !canValidate(validatorID, roles, redemption) {
		s.logger.LogSecurityEvent("validation_forbidden", "warning", map[string]interface{}{
			"validator_id":  validatorID.Hex(),
			"redemption_id": redemption.ID.Hex(),
		})
		return nil, apperrors.ErrForbidden
	}

	// The status flip and the point credit commit together. MarkUsed is
	// conditional on status, so of N concurrent validators exactly one
	// passes and the points are credited exactly once.
	result, err := s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		used, err := s.redemptionRepo.MarkUsed(sessCtx, redemption.ID, validatorID, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		if used.RewardPoints > 0 {
			if err := s.userRepo.CreditPoints(sessCtx, used.UserID, used.RewardPoints); err != nil {
				return nil, err
			}
		}
		return used, nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	used := result.(*models.Redemption)

	s.logger.LogRedemptionEvent(used.ID, "validated", map[string]interface{}{
		"validated_by":   validatorID.Hex(),
		"points_awarded": used.RewardPoints,
	})

	response := &models.ValidateRedemptionResponse{
		RedemptionID:  used.ID.Hex(),
		BenefitTitle:  used.BenefitTitle,
		PointsAwarded: used.RewardPoints,
		UsedAt:        *used.UsedAt,
	}

	user, err := s.userRepo.GetByID(ctx, used.UserID)
	if err != nil {
		s.logger.WithError(err).WithRedemptionID(used.ID).Warn("holder lookup failed after validation")
	} else {
		response.UserName = user.DisplayName
		if s.notifier != nil {
			go s.notifier.NotifyRedemptionValidated(context.Background(), user, used)
		}
	}

	return response, nil
}

// canValidate gates who may flip a redemption to used: admins anywhere,
// suppliers only on their own benefits. Students never validate, including
// their own redemptions.
func canValidate(validatorID primitive.ObjectID, roles models.RoleSet, redemption *models.Redemption) bool {
	if roles.Has(models.RoleAdmin) {
		return true
	}
	if roles.Has(models.RoleSupplier) && redemption.SupplierID == validatorID {
		return true
	}
	return false
}
