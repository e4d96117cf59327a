package interfaces

import (
	"context"
	"time"

	"campusperks/internal/models"
	"campusperks/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedemptionRepository owns the ledger. Records are inserted once, flipped
// valid -> used once, and never deleted.
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *models.Redemption) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Redemption, error)

	// List applies the scope inside the query filter. A supplier scope can
	// only ever match that supplier's records regardless of the filter.
	List(ctx context.Context, scope models.RedemptionScope, filter models.RedemptionFilter, params *utils.PaginationParams) ([]*models.Redemption, int64, error)

	// MarkUsed performs the valid -> used transition as one conditional
	// update and returns the updated record. Exactly one of two concurrent
	// calls succeeds; the loser gets ErrAlreadyUsed (or ErrNotFound when no
	// record with that id exists at all).
	MarkUsed(ctx context.Context, id primitive.ObjectID, validatedBy primitive.ObjectID, usedAt time.Time) (*models.Redemption, error)

	CountSince(ctx context.Context, scope models.RedemptionScope, since time.Time) (int64, error)
	CountByBenefit(ctx context.Context, scope models.RedemptionScope, limit int) ([]models.BenefitUsageCount, error)

	// WatchInserts streams newly created redemptions until ctx is done. The
	// returned channel is closed when the underlying change stream ends.
	WatchInserts(ctx context.Context) (<-chan *models.Redemption, error)
}
