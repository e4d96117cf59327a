package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnnouncementStatus string

const (
	AnnouncementStatusPending  AnnouncementStatus = "pending"
	AnnouncementStatusApproved AnnouncementStatus = "approved"
	AnnouncementStatusRejected AnnouncementStatus = "rejected"
)

// Announcement is a supplier-submitted post that goes through admin
// moderation. ApprovedAt is set exactly once, on the pending -> approved
// transition.
type Announcement struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	SupplierID primitive.ObjectID  `json:"supplier_id" bson:"supplier_id"`
	Title      string              `json:"title" bson:"title" validate:"required,min=3,max=150"`
	Body       string              `json:"body" bson:"body" validate:"required,max=5000"`
	Status     AnnouncementStatus  `json:"status" bson:"status" default:"pending"`
	ReviewedBy *primitive.ObjectID `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ApprovedAt *time.Time          `json:"approved_at,omitempty" bson:"approved_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" bson:"updated_at"`
}

type CreateAnnouncementRequest struct {
	Title string `json:"title" validate:"required,min=3,max=150"`
	Body  string `json:"body" validate:"required,max=5000"`
}
