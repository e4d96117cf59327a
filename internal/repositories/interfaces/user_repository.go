package interfaces

import (
	"context"

	"campusperks/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// CreditPoints adds points with an atomic $inc, never a read-modify-write.
	// Runs inside the caller's transaction when ctx is a session context.
	CreditPoints(ctx context.Context, id primitive.ObjectID, points int64) error

	RegisterDeviceToken(ctx context.Context, id primitive.ObjectID, token models.DeviceToken) error
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}
