package services

import (
	"context"
	"errors"

	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"
	"campusperks/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnnouncementService runs the supplier post moderation queue. Posts are
// created pending, admins decide them exactly once, and only approved posts
// appear on the public feed.
type AnnouncementService interface {
	Create(ctx context.Context, supplierID primitive.ObjectID, req *models.CreateAnnouncementRequest) (*models.Announcement, error)
	ListApproved(ctx context.Context, params *utils.PaginationParams) ([]*models.Announcement, int64, error)
	ListPending(ctx context.Context, params *utils.PaginationParams) ([]*models.Announcement, int64, error)
	ListMine(ctx context.Context, supplierID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Announcement, int64, error)

	// Decide moves a pending announcement to approved or rejected. A second
	// decision on the same announcement fails with ErrAlreadyDecided.
	Decide(ctx context.Context, reviewerID primitive.ObjectID, id primitive.ObjectID, approve bool) (*models.Announcement, error)
}

type announcementService struct {
	announcementRepo interfaces.AnnouncementRepository
	userRepo         interfaces.UserRepository
	notifier         Notifier
	logger           *logger.Logger
}

func NewAnnouncementService(
	announcementRepo interfaces.AnnouncementRepository,
	userRepo interfaces.UserRepository,
	notifier Notifier,
	log *logger.Logger,
) AnnouncementService {
	return &announcementService{
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		logger:           log,
	}
}

func (s *announcementService) Create(ctx context.Context, supplierID primitive.ObjectID, req *models.CreateAnnouncementRequest) (*models.Announcement, error) {
	announcement := &models.Announcement{
		SupplierID: supplierID,
		Title:      req.Title,
		Body:       req.Body,
		Status:     models.AnnouncementStatusPending,
	}

	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	s.logger.WithUserID(supplierID).WithField("announcement_id", announcement.ID.Hex()).Info("Announcement submitted for review")
	return announcement, nil
}

func (s *announcementService) ListApproved(ctx context.Context, params *utils.PaginationParams) ([]*models.Announcement, int64, error) {
	return s.announcementRepo.ListByStatus(ctx, models.AnnouncementStatusApproved, params)
}

func (s *announcementService) ListPending(ctx context.Context, params *utils.PaginationParams) ([]*models.Announcement, int64, error) {
	return s.announcementRepo.ListByStatus(ctx, models.AnnouncementStatusPending, params)
}

func (s *announcementService) ListMine(ctx context.Context, supplierID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Announcement, int64, error) {
	return s.announcementRepo.ListBySupplier(ctx, supplierID, params)
}

func (s *announcementService) Decide(ctx context.Context, reviewerID primitive.ObjectID, id primitive.ObjectID, approve bool) (*models.Announcement, error) {
	status := models.AnnouncementStatusRejected
	if approve {
		status = models.AnnouncementStatusApproved
	}

	announcement, err := s.announcementRepo.SetStatus(ctx, id, status, reviewerID)
	if err != nil {
		return nil, err
	}

	s.logger.WithUserID(reviewerID).WithFields(map[string]interface{}{
		"announcement_id": announcement.ID.Hex(),
		"decision":        string(status),
	}).Info("Announcement decided")

	if s.notifier != nil {
		supplier, err := s.userRepo.GetByID(ctx, announcement.SupplierID)
		if err != nil {
			if !isNotFound(err) {
				s.logger.WithError(err).Warn("supplier lookup failed for announcement notification")
			}
		} else {
			go s.notifier.NotifyAnnouncementDecision(context.Background(), supplier, announcement)
		}
	}

	return announcement, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
