package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BenefitStatus string

const (
	BenefitStatusActive   BenefitStatus = "active"
	BenefitStatusInactive BenefitStatus = "inactive"
)

type BenefitCategory string

const (
	BenefitCategoryFood          BenefitCategory = "food"
	BenefitCategoryTech          BenefitCategory = "tech"
	BenefitCategoryEntertainment BenefitCategory = "entertainment"
	BenefitCategoryTravel        BenefitCategory = "travel"
	BenefitCategoryEducation     BenefitCategory = "education"
	BenefitCategoryOther         BenefitCategory = "other"
)

// Benefit is an offer published by a supplier, priced in points. Benefits are
// never deleted while redemptions reference them; retiring one is a status
// flip to inactive. Stock is decremented with a conditional update at
// redemption time and never at validation time.
type Benefit struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SupplierID   primitive.ObjectID `json:"supplier_id" bson:"supplier_id"`
	Title        string             `json:"title" bson:"title" validate:"required,min=3,max=100"`
	Description  string             `json:"description" bson:"description" validate:"max=2000"`
	Category     BenefitCategory    `json:"category" bson:"category" validate:"required"`
	PointPrice   int64              `json:"point_price" bson:"point_price" validate:"required,min=0"`
	RewardPoints int64              `json:"reward_points" bson:"reward_points" validate:"min=0"`
	Stock        int64              `json:"stock" bson:"stock" validate:"min=0"`
	Status       BenefitStatus      `json:"status" bson:"status" default:"active"`
	ImageURL     string             `json:"image_url" bson:"image_url"`
	ImageKey     string             `json:"-" bson:"image_key,omitempty"`
	ClickCount   int64              `json:"click_count" bson:"click_count"`
	Redemptions  int64              `json:"total_redemptions" bson:"total_redemptions"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type CreateBenefitRequest struct {
	Title        string          `json:"title" validate:"required,min=3,max=100"`
	Description  string          `json:"description" validate:"max=2000"`
	Category     BenefitCategory `json:"category" validate:"required"`
	PointPrice   int64           `json:"point_price" validate:"required,min=0"`
	RewardPoints int64           `json:"reward_points" validate:"min=0"`
	Stock        int64           `json:"stock" validate:"required,min=1"`
}

type UpdateBenefitRequest struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Category     *BenefitCategory `json:"category,omitempty"`
	PointPrice   *int64           `json:"point_price,omitempty"`
	RewardPoints *int64           `json:"reward_points,omitempty"`
	Stock        *int64           `json:"stock,omitempty"`
	Status       *BenefitStatus   `json:"status,omitempty"`
}
