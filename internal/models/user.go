package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User is an authenticated principal. Points is only ever mutated through
// atomic $inc updates; role membership lives in separate collections and is
// resolved per request, never stored here.
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email          string             `json:"email" bson:"email" validate:"required,email"`
	DisplayName    string             `json:"display_name" bson:"display_name" validate:"required,min=2,max=50"`
	University     string             `json:"university" bson:"university"`
	ProfilePicture string             `json:"profile_picture" bson:"profile_picture"`
	Points         int64              `json:"points" bson:"points"`
	Status         UserStatus         `json:"status" bson:"status" default:"active"`
	DeviceTokens   []DeviceToken      `json:"-" bson:"device_tokens"`
	LastActiveAt   *time.Time         `json:"last_active_at" bson:"last_active_at"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

type DevicePlatform string

const (
	DevicePlatformAndroid DevicePlatform = "android"
	DevicePlatformIOS     DevicePlatform = "ios"
)

// DeviceToken is a push-notification registration for one of the user's
// devices.
type DeviceToken struct {
	Token        string         `json:"token" bson:"token" validate:"required"`
	Platform     DevicePlatform `json:"platform" bson:"platform" validate:"required"`
	RegisteredAt time.Time      `json:"registered_at" bson:"registered_at"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	University  string `json:"university" validate:"max=100"`
}

type RegisterDeviceRequest struct {
	Token    string         `json:"token" validate:"required"`
	Platform DevicePlatform `json:"platform" validate:"required,oneof=android ios"`
}

// LeaderboardEntry is a read-only projection for the points leaderboard.
type LeaderboardEntry struct {
	UserID      primitive.ObjectID `json:"user_id" bson:"_id"`
	DisplayName string             `json:"display_name" bson:"display_name"`
	University  string             `json:"university" bson:"university"`
	Points      int64              `json:"points" bson:"points"`
	Rank        int                `json:"rank" bson:"-"`
}
