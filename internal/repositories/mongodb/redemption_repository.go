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

type redemptionRepository struct {
	collection *mongo.Collection
}

func NewRedemptionRepository(db *mongo.Database) interfaces.RedemptionRepository {
	return &redemptionRepository{
		collection: db.Collection(utils.CollectionRedemptions),
	}
}

func (r *redemptionRepository) Create(ctx context.Context, redemption *models.Redemption) error {
	redemption.ID = primitive.NewObjectID()
	redemption.CreatedAt = time.Now()
	redemption.Status = models.RedemptionStatusValid

	_, err := r.collection.InsertOne(ctx, redemption)
	if err != nil {
		return fmt.Errorf("failed to create redemption: %w", err)
	}

	return nil
}

func (r *redemptionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Redemption, error) {
	var redemption models.Redemption
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&redemption)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get redemption: %w", err)
	}

	return &redemption, nil
}

// scopeQuery translates a scope into a filter clause. The clause is part of
// the query itself, so a scoped caller cannot see outside it no matter what
// extra filters arrive from the request.
func scopeQuery(scope models.RedemptionScope) bson.M {
	query := bson.M{}
	if scope.All {
		return query
	}
	if scope.SupplierID != nil {
		query["supplier_id"] = *scope.SupplierID
	}
	if scope.UserID != nil {
		query["user_id"] = *scope.UserID
	}
	if len(query) == 0 {
		// An unscoped, non-admin caller matches nothing rather than
		// everything.
		query["_id"] = primitive.NilObjectID
	}
	return query
}

func (r *redemptionRepository) List(ctx context.Context, scope models.RedemptionScope, filter models.RedemptionFilter, params *utils.PaginationParams) ([]*models.Redemption, int64, error) {
	query := scopeQuery(scope)

	if filter.BenefitID != nil {
		query["benefit_id"] = *filter.BenefitID
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.From != nil || filter.To != nil {
		created := bson.M{}
		if filter.From != nil {
			created["$gte"] = *filter.From
		}
		if filter.To != nil {
			created["$lt"] = *filter.To
		}
		query["created_at"] = created
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count redemptions: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list redemptions: %w", err)
	}
	defer cursor.Close(ctx)

	var redemptions []*models.Redemption
	if err := cursor.All(ctx, &redemptions); err != nil {
		return nil, 0, fmt.Errorf("failed to decode redemptions: %w", err)
	}

	return redemptions, total, nil
}

// MarkUsed is the single point where a redemption changes state. The filter
// requires status "valid", so of two concurrent calls exactly one matches
// and flips the record; the other falls through to the classifying read and
// reports ErrAlreadyUsed.
func (r *redemptionRepository) MarkUsed(ctx context.Context, id primitive.ObjectID, validatedBy primitive.ObjectID, usedAt time.Time) (*models.Redemption, error) {
	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":    id,
			"status": models.RedemptionStatusValid,
		},
		bson.M{
			"$set": bson.M{
				"status":       models.RedemptionStatusUsed,
				"used_at":      usedAt,
				"validated_by": validatedBy,
			},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	if result.Err() == nil {
		var redemption models.Redemption
		if err := result.Decode(&redemption); err != nil {
			return nil, fmt.Errorf("failed to decode redemption: %w", err)
		}
		return &redemption, nil
	}
	if result.Err() != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to mark redemption used: %w", result.Err())
	}

	// No valid record matched: either it never existed or it was already
	// used. Tell the caller which.
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to classify validation refusal: %w", err)
	}
	if count == 0 {
		return nil, apperrors.ErrNotFound
	}

	return nil, apperrors.ErrAlreadyUsed
}

func (r *redemptionRepository) CountSince(ctx context.Context, scope models.RedemptionScope, since time.Time) (int64, error) {
	query := scopeQuery(scope)
	if !since.IsZero() {
		query["created_at"] = bson.M{"$gte": since}
	}

	count, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}

	return count, nil
}

func (r *redemptionRepository) CountByBenefit(ctx context.Context, scope models.RedemptionScope, limit int) ([]models.BenefitUsageCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: scopeQuery(scope)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$benefit_title",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"count": -1}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate benefit counts: %w", err)
	}
	defer cursor.Close(ctx)

	counts := []models.BenefitUsageCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode benefit counts: %w", err)
	}

	return counts, nil
}

// WatchInserts tails the ledger's change stream and forwards each freshly
// created redemption. The goroutine exits when ctx is cancelled or the
// stream breaks; consumers see the channel close either way.
func (r *redemptionRepository) WatchInserts(ctx context.Context) (<-chan *models.Redemption, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"operationType": "insert"}}},
	}

	stream, err := r.collection.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}

	out := make(chan *models.Redemption)

	go func() {
		defer close(out)
		defer stream.Close(context.Background())

		for stream.Next(ctx) {
			var event struct {
				FullDocument models.Redemption `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				continue
			}

			redemption := event.FullDocument
			select {
			case out <- &redemption:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
