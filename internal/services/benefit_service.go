package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"
	"campusperks/pkg/logger"
	"campusperks/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BenefitService manages the supplier catalogue. Write operations check
// ownership: a supplier mutates only its own benefits, admins anything.
type BenefitService interface {
	Create(ctx context.Context, supplierID primitive.ObjectID, req *models.CreateBenefitRequest) (*models.Benefit, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Benefit, error)
	Update(ctx context.Context, actorID primitive.ObjectID, roles models.RoleSet, id primitive.ObjectID, req *models.UpdateBenefitRequest) (*models.Benefit, error)
	Retire(ctx context.Context, actorID primitive.ObjectID, roles models.RoleSet, id primitive.ObjectID) error
	List(ctx context.Context, filter interfaces.BenefitListFilter, params *utils.PaginationParams) ([]*models.Benefit, int64, error)
	RecordClick(ctx context.Context, id primitive.ObjectID) error
	UploadImage(ctx context.Context, actorID primitive.ObjectID, roles models.RoleSet, id primitive.ObjectID, reader io.Reader, size int64) (string, error)
}

type benefitService struct {
	benefitRepo interfaces.BenefitRepository
	store       storage.StorageProvider
	logger      *logger.Logger
}

func NewBenefitService(benefitRepo interfaces.BenefitRepository, store storage.StorageProvider, log *logger.Logger) BenefitService {
	return &benefitService{
		benefitRepo: benefitRepo,
		store:       store,
		logger:      log,
	}
}

func (s *benefitService) Create(ctx context.Context, supplierID primitive.ObjectID, req *models.CreateBenefitRequest) (*models.Benefit, error) {
	benefit := &models.Benefit{
		SupplierID:   supplierID,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		PointPrice:   req.PointPrice,
		RewardPoints: req.RewardPoints,
		Stock:        req.Stock,
		Status:       models.BenefitStatusActive,
	}

	if err := s.benefitRepo.Create(ctx, benefit); err != nil {
		return nil, err
	}

	s.logger.WithBenefitID(benefit.ID).WithUserID(supplierID).Info("Benefit created")
	return benefit, nil
}

func (s *benefitService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Benefit, error) {
	return s.benefitRepo.GetByID(ctx, id)
}

func (s *benefitService) Update(ctx context.Context, actorID primitive.ObjectID, roles models.RoleSet, id primitive.ObjectID, req *models.UpdateBenefitRequest) (*models.Benefit, error) {
	benefit, err := s.authorizeWrite(ctx, actorID, roles, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.PointPrice != nil {
		updates["point_price"] = *req.PointPrice
	}
	if req.RewardPoints != nil {
		updates["reward_points"] = *req.RewardPoints
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		return benefit, nil
	}

	if err := s.benefitRepo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	return s.benefitRepo.GetByID(ctx, id)
}

// Retire flips the benefit to inactive. Benefits referenced by ledger
// records are never deleted.
func (s *benefitService) Retire(ctx context.Context, actorID primitive.ObjectID, roles models.RoleSet, id primitive.ObjectID) error {
	if _, err := s.authorizeWrite(ctx, actorID, roles, id); err != nil {
		return err
	}

	return s.benefitRepo.Update(ctx, id, map[string]interface{}{
		"status": models.BenefitStatusInactive,
	})
}

func (s *benefitService) List(ctx context.Context, filter interfaces.BenefitListFilter, params *utils.PaginationParams) ([]*models.Benefit, int64, error) {
	return s.benefitRepo.List(ctx, filter, params)
}

func (s *benefitService) RecordClick(ctx context.Context, id primitive.ObjectID) error {
	return s.benefitRepo.IncrementClicks(ctx, id)
}

func (s *benefitService) UploadImage(ctx context.Context, actorID primitive.ObjectID, roles models.RoleSet, id primitive.ObjectID, reader io.Reader, size int64) (string, error) {
	if size > utils.MaxImageSize {
		return "", fmt.Errorf("image exceeds maximum size of %d bytes", utils.MaxImageSize)
	}

	benefit, err := s.authorizeWrite(ctx, actorID, roles, id)
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(reader, utils.MaxImageSize))
	if err != nil {
		return "", fmt.Errorf("failed to read benefit image: %w", err)
	}

	// Stored bytes are always decoded, bounded, and re-encoded. The client's
	// declared content type is never trusted.
	processed, imageType, err := utils.NormalizeImage(data, utils.MaxImageWidth, utils.MaxImageHeight)
	if err != nil {
		s.logger.WithError(err).WithBenefitID(id).Warn("Rejected benefit image upload")
		return "", apperrors.ErrInvalidImage
	}

	key := fmt.Sprintf("benefits/%s/%d", id.Hex(), time.Now().UnixNano())
	resp, err := s.store.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(processed),
		ContentType: imageType,
		Size:        int64(len(processed)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store benefit image: %w", err)
	}

	updates := map[string]interface{}{
		"image_url": resp.URL,
		"image_key": key,
	}
	if err := s.benefitRepo.Update(ctx, id, updates); err != nil {
		return "", err
	}

	// The replaced object is orphaned once the record points elsewhere;
	// removal is best effort.
	if benefit.ImageKey != "" && benefit.ImageKey != key {
		if err := s.store.Delete(ctx, benefit.ImageKey); err != nil {
			s.logger.WithError(err).WithBenefitID(id).Warn("Failed to remove replaced benefit image")
		}
	}

	return resp.URL, nil
}

func (s *benefitService) authorizeWrite(ctx context.Context, actorID primitive.ObjectID, roles models.RoleSet, id primitive.ObjectID) (*models.Benefit, error) {
	benefit, err := s.benefitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if roles.Has(models.RoleAdmin) {
		return benefit, nil
	}
	if roles.Has(models.RoleSupplier) && benefit.SupplierID == actorID {
		return benefit, nil
	}

	return nil, apperrors.ErrForbidden
}
