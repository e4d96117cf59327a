package services

import (
	"context"
	"sync"
	"testing"

	"campusperks/internal/codec"
	"campusperks/internal/models"
	apperrors "campusperks/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newValidationFixture(t *testing.T) (*fakeRedemptionRepo, *fakeUserRepo, *fakeRoleRepo, *codec.Codec, ValidationService) {
	t.Helper()
	redemptionRepo := newFakeRedemptionRepo()
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	payloadCodec := codec.New("validation-test-secret")
	identity := NewIdentityService(roleRepo, testLogger())
	svc := NewValidationService(fakeTxRunner{}, identity, redemptionRepo, userRepo, payloadCodec, nil, testLogger())
	return redemptionRepo, userRepo, roleRepo, payloadCodec, svc
}

func TestValidateHappyPath(t *testing.T) {
	redemptionRepo, userRepo, roleRepo, payloadCodec, svc := newValidationFixture(t)

	supplierID := primitive.NewObjectID()
	roleRepo.suppliers[supplierID] = &models.SupplierGrant{PrincipalID: supplierID, BusinessName: "Campus Cafe"}

	holder := userRepo.put(&models.User{Email: "amira@uni.edu", DisplayName: "Amira"})
	redemption := redemptionRepo.put(&models.Redemption{
		BenefitID:    primitive.NewObjectID(),
		SupplierID:   supplierID,
		UserID:       holder.ID,
		BenefitTitle: "Free Coffee",
		RewardPoints: 15,
	})

	resp, err := svc.Validate(context.Background(), supplierID, payloadCodec.Encode(redemption.ID))
	require.NoError(t, err)

	assert.Equal(t, redemption.ID.Hex(), resp.RedemptionID)
	assert.Equal(t, "Free Coffee", resp.BenefitTitle)
	assert.Equal(t, "Amira", resp.UserName)
	assert.Equal(t, int64(15), resp.PointsAwarded)
	assert.False(t, resp.UsedAt.IsZero())

	stored, err := redemptionRepo.GetByID(context.Background(), redemption.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionStatusUsed, stored.Status)
	require.NotNil(t, stored.ValidatedBy)
	assert.Equal(t, supplierID, *stored.ValidatedBy)

	credited, err := userRepo.GetByID(context.Background(), holder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), credited.Points)
}

func TestValidateMalformedPayload(t *testing.T) {
	_, _, roleRepo, _, svc := newValidationFixture(t)

	adminID := primitive.NewObjectID()
	roleRepo.admins[adminID] = true

	_, err := svc.Validate(context.Background(), adminID, "not-a-real-payload")
	assert.ErrorIs(t, err, apperrors.ErrMalformedCode)
}

func TestValidateUnknownRedemption(t *testing.T) {
	_, _, roleRepo, payloadCodec, svc := newValidationFixture(t)

	adminID := primitive.NewObjectID()
	roleRepo.admins[adminID] = true

	// A structurally valid payload whose id has no ledger record behind it.
	payload := payloadCodec.Encode(primitive.NewObjectID())

	_, err := svc.Validate(context.Background(), adminID, payload)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrMalformedCode)
}

func TestValidateSecondAttemptRefused(t *testing.T) {
	redemptionRepo, userRepo, roleRepo, payloadCodec, svc := newValidationFixture(t)

	adminID := primitive.NewObjectID()
	roleRepo.admins[adminID] = true

	holder := userRepo.put(&models.User{Email: "sam@uni.edu", DisplayName: "Sam"})
	redemption := redemptionRepo.put(&models.Redemption{
		SupplierID:   primitive.NewObjectID(),
		UserID:       holder.ID,
		BenefitTitle: "Gym Pass",
		RewardPoints: 10,
	})
	payload := payloadCodec.Encode(redemption.ID)

	_, err := svc.Validate(context.Background(), adminID, payload)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), adminID, payload)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyUsed)

	// Points credited once, not twice.
	credited, err := userRepo.GetByID(context.Background(), holder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), credited.Points)
}

func TestValidateConcurrentExactlyOneWins(t *testing.T) {
	redemptionRepo, userRepo, roleRepo, payloadCodec, svc := newValidationFixture(t)

	adminID := primitive.NewObjectID()
	roleRepo.admins[adminID] = true

	holder := userRepo.put(&models.User{Email: "lee@uni.edu", DisplayName: "Lee"})
	redemption := redemptionRepo.put(&models.Redemption{
		SupplierID:   primitive.NewObjectID(),
		UserID:       holder.ID,
		BenefitTitle: "Pizza Slice",
		RewardPoints: 5,
	})
	payload := payloadCodec.Encode(redemption.ID)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Validate(context.Background(), adminID, payload)
		}(i)
	}
	wg.Wait()

	var wins, refusals int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, apperrors.ErrAlreadyUsed):
			refusals++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, refusals)

	credited, err := userRepo.GetByID(context.Background(), holder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), credited.Points)
}

func TestValidateForbiddenForPlainUser(t *testing.T) {
	redemptionRepo, userRepo, _, payloadCodec, svc := newValidationFixture(t)

	holder := userRepo.put(&models.User{Email: "nat@uni.edu", DisplayName: "Nat"})
	redemption := redemptionRepo.put(&models.Redemption{
		SupplierID:   primitive.NewObjectID(),
		UserID:       holder.ID,
		BenefitTitle: "Book Voucher",
	})

	// The holder scanning their own code is still refused.
	_, err := svc.Validate(context.Background(), holder.ID, payloadCodec.Encode(redemption.ID))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	stored, getErr := redemptionRepo.GetByID(context.Background(), redemption.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.RedemptionStatusValid, stored.Status)
}

func TestValidateForbiddenForOtherSupplier(t *testing.T) {
	redemptionRepo, userRepo, roleRepo, payloadCodec, svc := newValidationFixture(t)

	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	roleRepo.suppliers[owner] = &models.SupplierGrant{PrincipalID: owner}
	roleRepo.suppliers[other] = &models.SupplierGrant{PrincipalID: other}

	holder := userRepo.put(&models.User{Email: "kim@uni.edu", DisplayName: "Kim"})
	redemption := redemptionRepo.put(&models.Redemption{
		SupplierID:   owner,
		UserID:       holder.ID,
		BenefitTitle: "Lunch Deal",
	})
	payload := payloadCodec.Encode(redemption.ID)

	_, err := svc.Validate(context.Background(), other, payload)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// The owning supplier can still validate afterwards.
	_, err = svc.Validate(context.Background(), owner, payload)
	assert.NoError(t, err)
}

func TestValidateNoPointsWhenRewardZero(t *testing.T) {
	redemptionRepo, userRepo, roleRepo, payloadCodec, svc := newValidationFixture(t)

	adminID := primitive.NewObjectID()
	roleRepo.admins[adminID] = true

	holder := userRepo.put(&models.User{Email: "zoe@uni.edu", DisplayName: "Zoe"})
	redemption := redemptionRepo.put(&models.Redemption{
		SupplierID:   primitive.NewObjectID(),
		UserID:       holder.ID,
		BenefitTitle: "Sticker Pack",
		RewardPoints: 0,
	})

	resp, err := svc.Validate(context.Background(), adminID, payloadCodec.Encode(redemption.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.PointsAwarded)

	credited, err := userRepo.GetByID(context.Background(), holder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), credited.Points)
}
