package services

import (
	"context"

	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedPublisher pushes live events to connected dashboard clients.
// Implemented by the websocket handler.
type FeedPublisher interface {
	SendSupplierEvent(supplierID primitive.ObjectID, eventType string, data map[string]interface{})
}

// FeedService tails the ledger's insert stream and fans new redemptions out
// to the owning supplier's dashboard room. It is a projection of the
// ledger, never a source of truth; a dropped event costs a dashboard
// refresh, nothing more.
type FeedService struct {
	redemptionRepo interfaces.RedemptionRepository
	publisher      FeedPublisher
	logger         *logger.Logger
}

func NewFeedService(redemptionRepo interfaces.RedemptionRepository, publisher FeedPublisher, log *logger.Logger) *FeedService {
	return &FeedService{
		redemptionRepo: redemptionRepo,
		publisher:      publisher,
		logger:         log,
	}
}

// Run consumes the insert stream until ctx is cancelled or the stream ends.
func (s *FeedService) Run(ctx context.Context) error {
	stream, err := s.redemptionRepo.WatchInserts(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("Redemption feed started")

	for redemption := range stream {
		s.publish(redemption)
	}

	s.logger.Info("Redemption feed stopped")
	return nil
}

func (s *FeedService) publish(redemption *models.Redemption) {
	s.publisher.SendSupplierEvent(redemption.SupplierID, "redemption_created", map[string]interface{}{
		"redemption_id": redemption.ID.Hex(),
		"benefit_id":    redemption.BenefitID.Hex(),
		"benefit_title": redemption.BenefitTitle,
		"created_at":    redemption.CreatedAt,
	})
}
