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

type benefitRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewBenefitRepository(db *mongo.Database, cache CacheService) interfaces.BenefitRepository {
	return &benefitRepository{
		collection: db.Collection(utils.CollectionBenefits),
		cache:      cache,
	}
}

func (r *benefitRepository) Create(ctx context.Context, benefit *models.Benefit) error {
	benefit.ID = primitive.NewObjectID()
	benefit.CreatedAt = time.Now()
	benefit.UpdatedAt = time.Now()
	if benefit.Status == "" {
		benefit.Status = models.BenefitStatusActive
	}

	_, err := r.collection.InsertOne(ctx, benefit)
	if err != nil {
		return fmt.Errorf("failed to create benefit: %w", err)
	}

	if benefit.Status == models.BenefitStatusActive {
		r.cacheBenefit(ctx, benefit)
	}

	return nil
}

func (r *benefitRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Benefit, error) {
	if benefit := r.getBenefitFromCache(ctx, id.Hex()); benefit != nil {
		return benefit, nil
	}

	var benefit models.Benefit
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&benefit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get benefit: %w", err)
	}

	if benefit.Status == models.BenefitStatusActive {
		r.cacheBenefit(ctx, &benefit)
	}

	return &benefit, nil
}

func (r *benefitRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update benefit: %w", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}

	r.invalidateBenefitCache(ctx, id.Hex())

	return nil
}

func (r *benefitRepository) List(ctx context.Context, filter interfaces.BenefitListFilter, params *utils.PaginationParams) ([]*models.Benefit, int64, error) {
	query := bson.M{}
	if filter.SupplierID != nil {
		query["supplier_id"] = *filter.SupplierID
	}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count benefits: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list benefits: %w", err)
	}
	defer cursor.Close(ctx)

	var benefits []*models.Benefit
	if err := cursor.All(ctx, &benefits); err != nil {
		return nil, 0, fmt.Errorf("failed to decode benefits: %w", err)
	}

	return benefits, total, nil
}

// DecrementStock only matches an active benefit with stock remaining, so the
// counter can never go negative no matter how many redemptions race. When
// the conditional update matches nothing, a second read classifies the
// refusal.
func (r *benefitRepository) DecrementStock(ctx context.Context, id primitive.ObjectID) error {
	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id":    id,
			"status": models.BenefitStatusActive,
			"stock":  bson.M{"$gt": 0},
		},
		bson.M{
			"$inc": bson.M{"stock": -1},
			"$set": bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	if result.Err() == nil {
		r.invalidateBenefitCache(ctx, id.Hex())
		return nil
	}
	if result.Err() != mongo.ErrNoDocuments {
		return fmt.Errorf("failed to decrement stock: %w", result.Err())
	}

	var benefit models.Benefit
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&benefit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to classify stock refusal: %w", err)
	}

	if benefit.Status != models.BenefitStatusActive {
		return apperrors.ErrInactive
	}

	return apperrors.ErrOutOfStock
}

func (r *benefitRepository) IncrementClicks(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"click_count": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}

	return nil
}

func (r *benefitRepository) IncrementRedemptions(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"total_redemptions": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment redemptions: %w", err)
	}

	return nil
}

func (r *benefitRepository) cacheBenefit(ctx context.Context, benefit *models.Benefit) {
	if r.cache == nil {
		return
	}
	cacheKey := fmt.Sprintf("benefit_%s", benefit.ID.Hex())
	r.cache.Set(ctx, cacheKey, benefit, utils.BenefitCacheTTL)
}

func (r *benefitRepository) getBenefitFromCache(ctx context.Context, id string) *models.Benefit {
	if r.cache == nil {
		return nil
	}
	var benefit models.Benefit
	if err := r.cache.Get(ctx, fmt.Sprintf("benefit_%s", id), &benefit); err != nil {
		return nil
	}
	return &benefit
}

func (r *benefitRepository) invalidateBenefitCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, fmt.Sprintf("benefit_%s", id))
}
