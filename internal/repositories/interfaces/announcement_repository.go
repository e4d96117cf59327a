package interfaces

import (
	"context"

	"campusperks/internal/models"
	"campusperks/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Announcement, error)
	ListByStatus(ctx context.Context, status models.AnnouncementStatus, params *utils.PaginationParams) ([]*models.Announcement, int64, error)
	ListBySupplier(ctx context.Context, supplierID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Announcement, int64, error)

	// SetStatus moves a pending announcement to approved or rejected. The
	// update is conditional on status "pending" so a decision is made at
	// most once and approved_at is stamped exactly once.
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.AnnouncementStatus, reviewedBy primitive.ObjectID) (*models.Announcement, error)
}
