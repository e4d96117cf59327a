package interfaces

import (
	"context"

	"campusperks/internal/models"
	"campusperks/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BenefitListFilter struct {
	SupplierID *primitive.ObjectID
	Category   *models.BenefitCategory
	Status     *models.BenefitStatus
}

type BenefitRepository interface {
	Create(ctx context.Context, benefit *models.Benefit) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Benefit, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	List(ctx context.Context, filter BenefitListFilter, params *utils.PaginationParams) ([]*models.Benefit, int64, error)

	// DecrementStock takes one unit off an active benefit with remaining
	// stock, as a single conditional update. It distinguishes its refusals:
	// ErrNotFound, ErrInactive, or ErrOutOfStock.
	DecrementStock(ctx context.Context, id primitive.ObjectID) error

	IncrementClicks(ctx context.Context, id primitive.ObjectID) error
	IncrementRedemptions(ctx context.Context, id primitive.ObjectID) error
}
