package utils

import "time"

// Application Constants
const (
	AppName    = "CampusPerks"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// Redemption codes: 20 chars over a 32-symbol alphabet, ~100 bits of
	// entropy, enough that codes are not guessable.
	RedemptionCodeLength = 20

	// Leaderboard
	DefaultLeaderboardSize = 25
	MaxLeaderboardSize     = 100

	// Stats
	MaxStatsBenefits = 20

	// Cache TTLs
	BenefitCacheTTL     = 10 * time.Minute
	LeaderboardCacheTTL = 1 * time.Minute

	// File Upload
	MaxImageSize   = 5 * 1024 * 1024 // 5MB
	MaxImageWidth  = 1920
	MaxImageHeight = 1080

	// Status strings used in API responses
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized access"
	ErrForbidden        = "Access forbidden"
)

// Collection names
const (
	CollectionUsers         = "users"
	CollectionAdminRoles    = "admin_roles"
	CollectionSupplierRoles = "supplier_roles"
	CollectionBenefits      = "benefits"
	CollectionRedemptions   = "redemptions"
	CollectionAnnouncements = "announcements"
	CollectionAppointments  = "appointment_slots"
)
