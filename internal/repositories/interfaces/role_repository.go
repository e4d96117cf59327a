package interfaces

import (
	"context"

	"campusperks/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoleRepository reads and writes the membership collections that back role
// resolution. A role is held when its grant document exists; there is no
// deny record.
type RoleRepository interface {
	IsAdmin(ctx context.Context, principalID primitive.ObjectID) (bool, error)

	// GetSupplierGrant returns errors.ErrNotFound when the principal holds no
	// supplier grant.
	GetSupplierGrant(ctx context.Context, principalID primitive.ObjectID) (*models.SupplierGrant, error)

	GrantAdmin(ctx context.Context, grant *models.AdminGrant) error
	GrantSupplier(ctx context.Context, grant *models.SupplierGrant) error
	RevokeAdmin(ctx context.Context, principalID primitive.ObjectID) error
	RevokeSupplier(ctx context.Context, principalID primitive.ObjectID) error
}
