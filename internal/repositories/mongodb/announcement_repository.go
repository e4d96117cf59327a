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

type announcementRepository struct {
	collection *mongo.Collection
}

func NewAnnouncementRepository(db *mongo.Database) interfaces.AnnouncementRepository {
	return &announcementRepository{
		collection: db.Collection(utils.CollectionAnnouncements),
	}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	announcement.ID = primitive.NewObjectID()
	announcement.CreatedAt = time.Now()
	announcement.UpdatedAt = time.Now()
	announcement.Status = models.AnnouncementStatusPending

	_, err := r.collection.InsertOne(ctx, announcement)
	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	return nil
}

func (r *announcementRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Announcement, error) {
	var announcement models.Announcement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&announcement)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}

	return &announcement, nil
}

func (r *announcementRepository) ListByStatus(ctx context.Context, status models.AnnouncementStatus, params *utils.PaginationParams) ([]*models.Announcement, int64, error) {
	return r.list(ctx, bson.M{"status": status}, params)
}

func (r *announcementRepository) ListBySupplier(ctx context.Context, supplierID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Announcement, int64, error) {
	return r.list(ctx, bson.M{"supplier_id": supplierID}, params)
}

func (r *announcementRepository) list(ctx context.Context, query bson.M, params *utils.PaginationParams) ([]*models.Announcement, int64, error) {
	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count announcements: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var announcements []*models.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, 0, fmt.Errorf("failed to decode announcements: %w", err)
	}

	return announcements, total, nil
}

// SetStatus decides a pending announcement. The filter pins status to
// "pending", so a decision lands at most once and approved_at is written
// exactly once, on approval.
func (r *announcementRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.AnnouncementStatus, reviewedBy primitive.ObjectID) (*models.Announcement, error) {
	now := time.Now()
	updates := bson.M{
		"status":      status,
		"reviewed_by": reviewedBy,
		"updated_at":  now,
	}
	if status == models.AnnouncementStatusApproved {
		updates["approved_at"] = now
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":    id,
			"status": models.AnnouncementStatusPending,
		},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	if result.Err() == nil {
		var announcement models.Announcement
		if err := result.Decode(&announcement); err != nil {
			return nil, fmt.Errorf("failed to decode announcement: %w", err)
		}
		return &announcement, nil
	}
	if result.Err() != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to set announcement status: %w", result.Err())
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to classify moderation refusal: %w", err)
	}
	if count == 0 {
		return nil, apperrors.ErrNotFound
	}

	// Exists but is no longer pending: the decision was already made.
	return nil, apperrors.ErrAlreadyDecided
}
