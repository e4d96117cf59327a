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
)

type roleRepository struct {
	adminCollection    *mongo.Collection
	supplierCollection *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) interfaces.RoleRepository {
	return &roleRepository{
		adminCollection:    db.Collection(utils.CollectionAdminRoles),
		supplierCollection: db.Collection(utils.CollectionSupplierRoles),
	}
}

func (r *roleRepository) IsAdmin(ctx context.Context, principalID primitive.ObjectID) (bool, error) {
	count, err := r.adminCollection.CountDocuments(ctx, bson.M{"principal_id": principalID})
	if err != nil {
		return false, fmt.Errorf("failed to check admin grant: %w", err)
	}

	return count > 0, nil
}

func (r *roleRepository) GetSupplierGrant(ctx context.Context, principalID primitive.ObjectID) (*models.SupplierGrant, error) {
	var grant models.SupplierGrant
	err := r.supplierCollection.FindOne(ctx, bson.M{"principal_id": principalID}).Decode(&grant)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get supplier grant: %w", err)
	}

	return &grant, nil
}

func (r *roleRepository) GrantAdmin(ctx context.Context, grant *models.AdminGrant) error {
	grant.ID = primitive.NewObjectID()
	grant.CreatedAt = time.Now()

	_, err := r.adminCollection.InsertOne(ctx, grant)
	if err != nil {
		return fmt.Errorf("failed to grant admin role: %w", err)
	}

	return nil
}

func (r *roleRepository) GrantSupplier(ctx context.Context, grant *models.SupplierGrant) error {
	grant.ID = primitive.NewObjectID()
	grant.CreatedAt = time.Now()

	_, err := r.supplierCollection.InsertOne(ctx, grant)
	if err != nil {
		return fmt.Errorf("failed to grant supplier role: %w", err)
	}

	return nil
}

func (r *roleRepository) RevokeAdmin(ctx context.Context, principalID primitive.ObjectID) error {
	_, err := r.adminCollection.DeleteOne(ctx, bson.M{"principal_id": principalID})
	if err != nil {
		return fmt.Errorf("failed to revoke admin role: %w", err)
	}

	return nil
}

func (r *roleRepository) RevokeSupplier(ctx context.Context, principalID primitive.ObjectID) error {
	_, err := r.supplierCollection.DeleteOne(ctx, bson.M{"principal_id": principalID})
	if err != nil {
		return fmt.Errorf("failed to revoke supplier role: %w", err)
	}

	return nil
}
