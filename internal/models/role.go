package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
	RoleUser     Role = "user"
)

// RoleSet is the set of roles a principal holds. Roles are not mutually
// exclusive.
type RoleSet map[Role]bool

func (s RoleSet) Has(role Role) bool {
	return s[role]
}

func (s RoleSet) List() []Role {
	roles := make([]Role, 0, len(s))
	for role := range s {
		roles = append(roles, role)
	}
	return roles
}

// AdminGrant marks a principal as an admin. Existence of the document is the
// grant; there is no deny record, absence means the role is not held.
type AdminGrant struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PrincipalID primitive.ObjectID `json:"principal_id" bson:"principal_id"`
	GrantedBy   primitive.ObjectID `json:"granted_by" bson:"granted_by"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// SupplierGrant marks a principal as a supplier and carries the business
// profile shown alongside its benefits.
type SupplierGrant struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PrincipalID  primitive.ObjectID `json:"principal_id" bson:"principal_id"`
	BusinessName string             `json:"business_name" bson:"business_name" validate:"required"`
	ContactEmail string             `json:"contact_email" bson:"contact_email"`
	LogoURL      string             `json:"logo_url" bson:"logo_url"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}
