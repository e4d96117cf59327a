package services

import (
	"context"
	"errors"

	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/pkg/logger"
	apperrors "campusperks/pkg/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdentityService maps an authenticated principal to the roles it currently
// holds. Resolution happens on every request so a revoked grant takes effect
// immediately; nothing here caches across requests.
type IdentityService interface {
	// Resolve returns the role set. Lookup failures fail closed: an error
	// checking a membership collection resolves to "role absent", never
	// "role present".
	Resolve(ctx context.Context, principalID primitive.ObjectID) models.RoleSet

	// SupplierGrant returns the principal's supplier profile, or
	// errors.ErrNotFound when none exists.
	SupplierGrant(ctx context.Context, principalID primitive.ObjectID) (*models.SupplierGrant, error)
}

type identityService struct {
	roleRepo interfaces.RoleRepository
	logger   *logger.Logger
}

func NewIdentityService(roleRepo interfaces.RoleRepository, log *logger.Logger) IdentityService {
	return &identityService{
		roleRepo: roleRepo,
		logger:   log,
	}
}

func (s *identityService) Resolve(ctx context.Context, principalID primitive.ObjectID) models.RoleSet {
	// Every authenticated principal is at least a user.
	roles := models.RoleSet{models.RoleUser: true}

	isAdmin, err := s.roleRepo.IsAdmin(ctx, principalID)
	if err != nil {
		s.logger.WithError(err).WithUserID(principalID).Warn("Admin role lookup failed, treating as absent")
	} else if isAdmin {
		roles[models.RoleAdmin] = true
	}

	_, err = s.roleRepo.GetSupplierGrant(ctx, principalID)
	if err == nil {
		roles[models.RoleSupplier] = true
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.WithError(err).WithUserID(principalID).Warn("Supplier role lookup failed, treating as absent")
	}

	return roles
}

func (s *identityService) SupplierGrant(ctx context.Context, principalID primitive.ObjectID) (*models.SupplierGrant, error) {
	return s.roleRepo.GetSupplierGrant(ctx, principalID)
}
