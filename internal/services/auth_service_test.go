package services

import (
	"context"
	"testing"

	"campusperks/internal/models"
	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "auth-test-secret"

func newAuthFixture(t *testing.T) (*fakeUserRepo, AuthService) {
	t.Helper()
	userRepo := newFakeUserRepo()
	return userRepo, NewAuthService(userRepo, testJWTSecret, testLogger())
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc := newAuthFixture(t)

	tokens, user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       "Mira@Uni.EDU",
		DisplayName: "Mira",
		University:  "State University",
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)

	// Emails are normalized on the way in.
	assert.Equal(t, "mira@uni.edu", user.Email)

	claims, err := utils.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	loginTokens, loginUser, err := svc.Login(context.Background(), "mira@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loginUser.ID)
	assert.NotEmpty(t, loginTokens.AccessToken)
}

func TestRegisterIdempotentForKnownEmail(t *testing.T) {
	userRepo, svc := newAuthFixture(t)

	_, first, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       "sam@uni.edu",
		DisplayName: "Sam",
	})
	require.NoError(t, err)

	_, second, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       "sam@uni.edu",
		DisplayName: "Sam Again",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, userRepo.users, 1)
}

func TestLoginUnknownEmail(t *testing.T) {
	_, svc := newAuthFixture(t)

	_, _, err := svc.Login(context.Background(), "missing@uni.edu")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLoginSuspendedUser(t *testing.T) {
	userRepo, svc := newAuthFixture(t)

	userRepo.put(&models.User{Email: "banned@uni.edu", DisplayName: "B", Status: models.UserStatusSuspended})

	_, _, err := svc.Login(context.Background(), "banned@uni.edu")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRefresh(t *testing.T) {
	_, svc := newAuthFixture(t)

	tokens, _, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:       "ref@uni.edu",
		DisplayName: "Ref",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRegisterDeviceReplacesDuplicateToken(t *testing.T) {
	userRepo, svc := newAuthFixture(t)

	user := userRepo.put(&models.User{Email: "dev@uni.edu", DisplayName: "Dev"})

	err := svc.RegisterDevice(context.Background(), user.ID, models.DeviceToken{Token: "tok-1", Platform: models.DevicePlatformAndroid})
	require.NoError(t, err)
	err = svc.RegisterDevice(context.Background(), user.ID, models.DeviceToken{Token: "tok-1", Platform: models.DevicePlatformAndroid})
	require.NoError(t, err)
	err = svc.RegisterDevice(context.Background(), user.ID, models.DeviceToken{Token: "tok-2", Platform: models.DevicePlatformIOS})
	require.NoError(t, err)

	stored, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.DeviceTokens, 2)
	assert.False(t, stored.DeviceTokens[0].RegisteredAt.IsZero())
}
