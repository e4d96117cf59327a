package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RedemptionStatus string

const (
	RedemptionStatusValid RedemptionStatus = "valid"
	RedemptionStatusUsed  RedemptionStatus = "used"
)

// Redemption is the ledger record of one user exchanging points for one
// instance of a benefit. Status transitions exactly once, valid -> used, via
// a conditional update; the record is an audit trail and is never deleted.
// SupplierID and BenefitTitle are denormalized from the benefit at creation
// time so listing and stats never fan out.
type Redemption struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	BenefitID    primitive.ObjectID  `json:"benefit_id" bson:"benefit_id"`
	SupplierID   primitive.ObjectID  `json:"supplier_id" bson:"supplier_id"`
	UserID       primitive.ObjectID  `json:"user_id" bson:"user_id"`
	BenefitTitle string              `json:"benefit_title" bson:"benefit_title"`
	Code         string              `json:"code" bson:"code"`
	PointPrice   int64               `json:"point_price" bson:"point_price"`
	RewardPoints int64               `json:"reward_points" bson:"reward_points"`
	Status       RedemptionStatus    `json:"status" bson:"status"`
	ValidatedBy  *primitive.ObjectID `json:"validated_by,omitempty" bson:"validated_by,omitempty"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UsedAt       *time.Time          `json:"used_at,omitempty" bson:"used_at,omitempty"`
}

type CreateRedemptionRequest struct {
	BenefitID string `json:"benefit_id" validate:"required"`
}

type CreateRedemptionResponse struct {
	RedemptionID string `json:"redemption_id"`
	Code         string `json:"code"`
	Payload      string `json:"payload"`
	QRImage      string `json:"qr_image_base64,omitempty"`
}

type ValidateRedemptionRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// ValidateRedemptionResponse is what the scanner sees after a successful
// validation. It intentionally contains no points balance or contact data.
type ValidateRedemptionResponse struct {
	RedemptionID  string    `json:"redemption_id"`
	BenefitTitle  string    `json:"benefit_title"`
	UserName      string    `json:"user_name"`
	PointsAwarded int64     `json:"points_awarded"`
	UsedAt        time.Time `json:"used_at"`
}

// RedemptionFilter narrows a ledger listing. Role scoping is applied on top
// of it by the repository and cannot be widened by the caller.
type RedemptionFilter struct {
	BenefitID *primitive.ObjectID
	Status    *RedemptionStatus
	From      *time.Time
	To        *time.Time
}

// RedemptionScope pins every ledger read to what the caller is allowed to
// see. It is built from resolved roles, never from request input: admins get
// ScopeAll, suppliers get their own supplier id, everyone else their own
// user id.
type RedemptionScope struct {
	All        bool
	SupplierID *primitive.ObjectID
	UserID     *primitive.ObjectID
}

func ScopeAll() RedemptionScope {
	return RedemptionScope{All: true}
}

func ScopeSupplier(supplierID primitive.ObjectID) RedemptionScope {
	return RedemptionScope{SupplierID: &supplierID}
}

func ScopeUser(userID primitive.ObjectID) RedemptionScope {
	return RedemptionScope{UserID: &userID}
}
