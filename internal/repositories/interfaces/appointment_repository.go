package interfaces

import (
	"context"

	"campusperks/internal/models"
	"campusperks/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentRepository interface {
	Create(ctx context.Context, slot *models.AppointmentSlot) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.AppointmentSlot, error)
	ListBySupplier(ctx context.Context, supplierID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AppointmentSlot, int64, error)
	ListAvailable(ctx context.Context, params *utils.PaginationParams) ([]*models.AppointmentSlot, int64, error)

	// Book flips an available slot to booked with a conditional update.
	// ErrSlotTaken when another principal got there first.
	Book(ctx context.Context, id, userID primitive.ObjectID) (*models.AppointmentSlot, error)

	// CancelBooking releases a slot, conditional on booked_by matching.
	CancelBooking(ctx context.Context, id, userID primitive.ObjectID) error
}
