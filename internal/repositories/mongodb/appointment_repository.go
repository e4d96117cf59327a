package mongodb

import (
	"context"
	"fmt"
	"time"

	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type appointmentRepository struct {
	collection *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) interfaces.AppointmentRepository {
	return &appointmentRepository{
		collection: db.Collection(utils.CollectionAppointments),
	}
}

func (r *appointmentRepository) Create(ctx context.Context, slot *models.AppointmentSlot) error {
	slot.ID = primitive.NewObjectID()
	slot.CreatedAt = time.Now()
	slot.Status = models.SlotStatusAvailable

	_, err := r.collection.InsertOne(ctx, slot)
	if err != nil {
		return fmt.Errorf("failed to create appointment slot: %w", err)
	}

	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.AppointmentSlot, error) {
	var slot models.AppointmentSlot
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment slot: %w", err)
	}

	return &slot, nil
}

func (r *appointmentRepository) ListBySupplier(ctx context.Context, supplierID primitive.ObjectID, params *utils.PaginationParams) ([]*models.AppointmentSlot, int64, error) {
	return r.list(ctx, bson.M{"supplier_id": supplierID}, params)
}

func (r *appointmentRepository) ListAvailable(ctx context.Context, params *utils.PaginationParams) ([]*models.AppointmentSlot, int64, error) {
	return r.list(ctx, bson.M{
		"status":    models.SlotStatusAvailable,
		"starts_at": bson.M{"$gt": time.Now()},
	}, params)
}

func (r *appointmentRepository) list(ctx context.Context, query bson.M, params *utils.PaginationParams) ([]*models.AppointmentSlot, int64, error) {
	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count appointment slots: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointment slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*models.AppointmentSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, 0, fmt.Errorf("failed to decode appointment slots: %w", err)
	}

	return slots, total, nil
}

// Book only matches an available slot, so two students racing for the same
// window cannot both get it.
func (r *appointmentRepository) Book(ctx context.Context, id, userID primitive.ObjectID) (*models.AppointmentSlot, error) {
	now := time.Now()
	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":    id,
			"status": models.SlotStatusAvailable,
		},
		bson.M{
			"$set": bson.M{
				"status":    models.SlotStatusBooked,
				"booked_by": userID,
				"booked_at": now,
			},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	if result.Err() == nil {
		var slot models.AppointmentSlot
		if err := result.Decode(&slot); err != nil {
			return nil, fmt.Errorf("failed to decode appointment slot: %w", err)
		}
		return &slot, nil
	}
	if result.Err() != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to book appointment slot: %w", result.Err())
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to classify booking refusal: %w", err)
	}
	if count == 0 {
		return nil, apperrors.ErrNotFound
	}

	return nil, apperrors.ErrSlotTaken
}

// CancelBooking is conditional on booked_by so only the holder can release
// the slot.
func (r *appointmentRepository) CancelBooking(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":       id,
			"status":    models.SlotStatusBooked,
			"booked_by": userID,
		},
		bson.M{
			"$set":   bson.M{"status": models.SlotStatusAvailable},
			"$unset": bson.M{"booked_by": "", "booked_at": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
