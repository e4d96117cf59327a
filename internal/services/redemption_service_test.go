package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"campusperks/internal/codec"
	"campusperks/internal/models"
	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newRedemptionFixture(t *testing.T) (*fakeBenefitRepo, *fakeRedemptionRepo, *codec.Codec, RedemptionService) {
	t.Helper()
	benefitRepo := newFakeBenefitRepo()
	redemptionRepo := newFakeRedemptionRepo()
	payloadCodec := codec.New("redemption-test-secret")
	svc := NewRedemptionService(fakeTxRunner{}, benefitRepo, redemptionRepo, payloadCodec, fakeQRRenderer{}, testLogger())
	return benefitRepo, redemptionRepo, payloadCodec, svc
}

func TestCreateRedemption(t *testing.T) {
	benefitRepo, redemptionRepo, payloadCodec, svc := newRedemptionFixture(t)

	supplierID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	benefit := benefitRepo.put(&models.Benefit{
		SupplierID:   supplierID,
		Title:        "Free Coffee",
		Status:       models.BenefitStatusActive,
		PointPrice:   50,
		RewardPoints: 15,
		Stock:        3,
	})

	resp, err := svc.Create(context.Background(), userID, benefit.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RedemptionID)
	assert.Len(t, resp.Code, utils.RedemptionCodeLength)
	assert.True(t, strings.HasPrefix(resp.QRImage, "data:image/png;base64,"))

	// The payload decodes back to the created ledger record.
	id, err := payloadCodec.Decode(resp.Payload)
	require.NoError(t, err)
	assert.Equal(t, resp.RedemptionID, id.Hex())

	stored, err := redemptionRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.RedemptionStatusValid, stored.Status)
	assert.Equal(t, supplierID, stored.SupplierID)
	assert.Equal(t, userID, stored.UserID)
	assert.Equal(t, "Free Coffee", stored.BenefitTitle)
	assert.Equal(t, int64(15), stored.RewardPoints)

	after, err := benefitRepo.GetByID(context.Background(), benefit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), after.Stock)
	assert.Equal(t, int64(1), after.Redemptions)
}

func TestCreateRedemptionUnknownBenefit(t *testing.T) {
	_, _, _, svc := newRedemptionFixture(t)

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateRedemptionInactiveBenefit(t *testing.T) {
	benefitRepo, redemptionRepo, _, svc := newRedemptionFixture(t)

	benefit := benefitRepo.put(&models.Benefit{
		SupplierID: primitive.NewObjectID(),
		Title:      "Retired Deal",
		Status:     models.BenefitStatusInactive,
		Stock:      5,
	})

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), benefit.ID)
	assert.ErrorIs(t, err, apperrors.ErrInactive)
	assert.Empty(t, redemptionRepo.redemptions)
}

func TestCreateRedemptionOutOfStock(t *testing.T) {
	benefitRepo, redemptionRepo, _, svc := newRedemptionFixture(t)

	benefit := benefitRepo.put(&models.Benefit{
		SupplierID: primitive.NewObjectID(),
		Title:      "Sold Out Deal",
		Status:     models.BenefitStatusActive,
		Stock:      0,
	})

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), benefit.ID)
	assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
	assert.Empty(t, redemptionRepo.redemptions)
}

func TestCreateRedemptionConcurrentStock(t *testing.T) {
	benefitRepo, redemptionRepo, _, svc := newRedemptionFixture(t)

	benefit := benefitRepo.put(&models.Benefit{
		SupplierID: primitive.NewObjectID(),
		Title:      "Limited Offer",
		Status:     models.BenefitStatusActive,
		Stock:      3,
	})

	const attempts = 12
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), primitive.NewObjectID(), benefit.ID)
		}(i)
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrOutOfStock)
		}
	}

	// Stock bounds successes exactly; never negative, never oversold.
	assert.Equal(t, 3, created)
	assert.Len(t, redemptionRepo.redemptions, 3)

	after, err := benefitRepo.GetByID(context.Background(), benefit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after.Stock)
}

func TestRepeatRedemptionOfSameBenefitAllowed(t *testing.T) {
	benefitRepo, _, _, svc := newRedemptionFixture(t)

	userID := primitive.NewObjectID()
	benefit := benefitRepo.put(&models.Benefit{
		SupplierID: primitive.NewObjectID(),
		Title:      "Weekly Special",
		Status:     models.BenefitStatusActive,
		Stock:      10,
	})

	first, err := svc.Create(context.Background(), userID, benefit.ID)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), userID, benefit.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.RedemptionID, second.RedemptionID)
	assert.NotEqual(t, first.Payload, second.Payload)
}

func TestListScopedByRole(t *testing.T) {
	_, redemptionRepo, _, svc := newRedemptionFixture(t)

	supplierA := primitive.NewObjectID()
	supplierB := primitive.NewObjectID()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	redemptionRepo.put(&models.Redemption{SupplierID: supplierA, UserID: userA, BenefitTitle: "A1"})
	redemptionRepo.put(&models.Redemption{SupplierID: supplierA, UserID: userB, BenefitTitle: "A2"})
	redemptionRepo.put(&models.Redemption{SupplierID: supplierB, UserID: userA, BenefitTitle: "B1"})

	params := utils.DefaultPaginationParams()
	ctx := context.Background()

	adminRoles := models.RoleSet{models.RoleAdmin: true, models.RoleUser: true}
	all, total, err := svc.List(ctx, primitive.NewObjectID(), adminRoles, models.RedemptionFilter{}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	supplierRoles := models.RoleSet{models.RoleSupplier: true, models.RoleUser: true}
	records, total, err := svc.List(ctx, supplierA, supplierRoles, models.RedemptionFilter{}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, r := range records {
		assert.Equal(t, supplierA, r.SupplierID)
	}

	userRoles := models.RoleSet{models.RoleUser: true}
	own, total, err := svc.List(ctx, userA, userRoles, models.RedemptionFilter{}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, r := range own {
		assert.Equal(t, userA, r.UserID)
	}
}

func TestListAdminWinsOverSupplier(t *testing.T) {
	_, redemptionRepo, _, svc := newRedemptionFixture(t)

	principal := primitive.NewObjectID()
	redemptionRepo.put(&models.Redemption{SupplierID: principal, UserID: primitive.NewObjectID()})
	redemptionRepo.put(&models.Redemption{SupplierID: primitive.NewObjectID(), UserID: primitive.NewObjectID()})

	roles := models.RoleSet{models.RoleAdmin: true, models.RoleSupplier: true, models.RoleUser: true}
	_, total, err := svc.List(context.Background(), principal, roles, models.RedemptionFilter{}, utils.DefaultPaginationParams())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

// timeoutTxRunner simulates a store that cannot be reached in time.
type timeoutTxRunner struct{}

func (timeoutTxRunner) WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error)) (interface{}, error) {
	return nil, context.DeadlineExceeded
}

func TestCreateRedemptionStoreUnavailable(t *testing.T) {
	benefitRepo := newFakeBenefitRepo()
	redemptionRepo := newFakeRedemptionRepo()
	svc := NewRedemptionService(timeoutTxRunner{}, benefitRepo, redemptionRepo, codec.New("redemption-test-secret"), fakeQRRenderer{}, testLogger())

	benefit := benefitRepo.put(&models.Benefit{
		SupplierID: primitive.NewObjectID(),
		Title:      "Free Coffee",
		Status:     models.BenefitStatusActive,
		Stock:      1,
	})

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), benefit.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}
