package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"
	"campusperks/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService exchanges a verified campus identity for a token pair. The
// upstream identity provider has already proven ownership of the email;
// this service only maps it onto a local account.
type AuthService interface {
	Login(ctx context.Context, email string) (*utils.TokenPair, *models.User, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*utils.TokenPair, *models.User, error)
	Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error)
	RegisterDevice(ctx context.Context, userID primitive.ObjectID, token models.DeviceToken) error
}

type authService struct {
	userRepo  interfaces.UserRepository
	jwtSecret string
	logger    *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, jwtSecret string, log *logger.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (s *authService) Login(ctx context.Context, email string) (*utils.TokenPair, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, nil, err
	}

	if user.Status != models.UserStatusActive {
		s.logger.LogSecurityEvent("suspended_login_attempt", "warning", map[string]interface{}{
			"user_id": user.ID.Hex(),
		})
		return nil, nil, apperrors.ErrForbidden
	}

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"last_active_at": now}); err != nil {
		s.logger.WithError(err).WithUserID(user.ID).Warn("failed to stamp last active time")
	}

	return tokens, user, nil
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*utils.TokenPair, *models.User, error) {
	email := normalizeEmail(req.Email)

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		// Registration is idempotent for an already known identity.
		return s.loginExisting(existing)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil, err
	}

	user := &models.User{
		Email:       email,
		DisplayName: req.DisplayName,
		University:  req.University,
		Status:      models.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	s.logger.WithUserID(user.ID).Info("User registered")

	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, nil, err
	}

	return tokens, user, nil
}

func (s *authService) loginExisting(user *models.User) (*utils.TokenPair, *models.User, error) {
	if user.Status != models.UserStatusActive {
		return nil, nil, apperrors.ErrForbidden
	}
	tokens, err := utils.GenerateTokenPair(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	return utils.RefreshAccessToken(refreshToken, s.jwtSecret)
}

func (s *authService) RegisterDevice(ctx context.Context, userID primitive.ObjectID, token models.DeviceToken) error {
	token.RegisteredAt = time.Now()
	return s.userRepo.RegisterDeviceToken(ctx, userID, token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
