package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"campusperks/internal/models"
	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"
	"campusperks/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newBenefitFixture(t *testing.T) (*fakeBenefitRepo, BenefitService) {
	t.Helper()
	repo := newFakeBenefitRepo()
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	return repo, NewBenefitService(repo, store, testLogger())
}

func TestCreateBenefit(t *testing.T) {
	_, svc := newBenefitFixture(t)

	supplierID := primitive.NewObjectID()
	benefit, err := svc.Create(context.Background(), supplierID, &models.CreateBenefitRequest{
		Title:        "Free Coffee",
		Category:     models.BenefitCategoryFood,
		PointPrice:   50,
		RewardPoints: 10,
		Stock:        20,
	})
	require.NoError(t, err)

	assert.Equal(t, supplierID, benefit.SupplierID)
	assert.Equal(t, models.BenefitStatusActive, benefit.Status)
	assert.Equal(t, int64(20), benefit.Stock)
}

func TestUpdateBenefitOwnershipEnforced(t *testing.T) {
	repo, svc := newBenefitFixture(t)

	owner := primitive.NewObjectID()
	benefit := repo.put(&models.Benefit{
		SupplierID: owner,
		Title:      "Lunch Deal",
		Status:     models.BenefitStatusActive,
	})

	newTitle := "Lunch Deal v2"
	supplierRoles := models.RoleSet{models.RoleSupplier: true, models.RoleUser: true}

	// Another supplier cannot touch it.
	_, err := svc.Update(context.Background(), primitive.NewObjectID(), supplierRoles, benefit.ID, &models.UpdateBenefitRequest{Title: &newTitle})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// The owner can.
	updated, err := svc.Update(context.Background(), owner, supplierRoles, benefit.ID, &models.UpdateBenefitRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Lunch Deal v2", updated.Title)

	// An admin can too.
	adminRoles := models.RoleSet{models.RoleAdmin: true, models.RoleUser: true}
	original := "Lunch Deal"
	updated, err = svc.Update(context.Background(), primitive.NewObjectID(), adminRoles, benefit.ID, &models.UpdateBenefitRequest{Title: &original})
	require.NoError(t, err)
	assert.Equal(t, "Lunch Deal", updated.Title)
}

func TestRetireBenefit(t *testing.T) {
	repo, svc := newBenefitFixture(t)

	owner := primitive.NewObjectID()
	benefit := repo.put(&models.Benefit{
		SupplierID: owner,
		Title:      "Seasonal Offer",
		Status:     models.BenefitStatusActive,
		Stock:      5,
	})

	roles := models.RoleSet{models.RoleSupplier: true, models.RoleUser: true}
	err := svc.Retire(context.Background(), owner, roles, benefit.ID)
	require.NoError(t, err)

	after, err := repo.GetByID(context.Background(), benefit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BenefitStatusInactive, after.Status)
	// Retiring never deletes; the record remains for the ledger.
	assert.Equal(t, int64(5), after.Stock)
}

// pngBytes renders a solid PNG of the given dimensions.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	repo, svc := newBenefitFixture(t)

	owner := primitive.NewObjectID()
	benefit := repo.put(&models.Benefit{
		SupplierID: owner,
		Title:      "Photo Deal",
		Status:     models.BenefitStatusActive,
	})

	roles := models.RoleSet{models.RoleSupplier: true, models.RoleUser: true}
	data := pngBytes(t, 16, 12)

	url, err := svc.UploadImage(context.Background(), owner, roles, benefit.ID, bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Contains(t, url, "benefits/"+benefit.ID.Hex())

	after, err := repo.GetByID(context.Background(), benefit.ID)
	require.NoError(t, err)
	assert.Equal(t, url, after.ImageURL)
}

func TestUploadImageResizesOversized(t *testing.T) {
	repo := newFakeBenefitRepo()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewBenefitService(repo, store, testLogger())

	owner := primitive.NewObjectID()
	benefit := repo.put(&models.Benefit{SupplierID: owner, Status: models.BenefitStatusActive})

	roles := models.RoleSet{models.RoleSupplier: true, models.RoleUser: true}
	data := pngBytes(t, utils.MaxImageWidth*2, 40)

	_, err = svc.UploadImage(context.Background(), owner, roles, benefit.ID, bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	stored, err := filepath.Glob(filepath.Join(dir, "benefits", benefit.ID.Hex(), "*"))
	require.NoError(t, err)
	require.Len(t, stored, 1)

	f, err := os.Open(stored[0])
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, utils.MaxImageWidth)
	assert.LessOrEqual(t, cfg.Height, utils.MaxImageHeight)
}

func TestUploadImageReplacesPrevious(t *testing.T) {
	repo := newFakeBenefitRepo()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewBenefitService(repo, store, testLogger())

	owner := primitive.NewObjectID()
	benefit := repo.put(&models.Benefit{SupplierID: owner, Status: models.BenefitStatusActive})
	roles := models.RoleSet{models.RoleSupplier: true, models.RoleUser: true}

	data := pngBytes(t, 8, 8)
	_, err = svc.UploadImage(context.Background(), owner, roles, benefit.ID, bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	_, err = svc.UploadImage(context.Background(), owner, roles, benefit.ID, bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	// The first object is removed once the record points at the second.
	stored, err := filepath.Glob(filepath.Join(dir, "benefits", benefit.ID.Hex(), "*"))
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	repo, svc := newBenefitFixture(t)

	owner := primitive.NewObjectID()
	benefit := repo.put(&models.Benefit{SupplierID: owner, Status: models.BenefitStatusActive})

	roles := models.RoleSet{models.RoleSupplier: true, models.RoleUser: true}
	_, err := svc.UploadImage(context.Background(), owner, roles, benefit.ID, strings.NewReader("not an image"), 12)
	assert.ErrorIs(t, err, apperrors.ErrInvalidImage)

	after, err := repo.GetByID(context.Background(), benefit.ID)
	require.NoError(t, err)
	assert.Empty(t, after.ImageURL)
}

func TestUploadImageTooLarge(t *testing.T) {
	repo, svc := newBenefitFixture(t)

	owner := primitive.NewObjectID()
	benefit := repo.put(&models.Benefit{SupplierID: owner, Status: models.BenefitStatusActive})

	roles := models.RoleSet{models.RoleSupplier: true, models.RoleUser: true}
	_, err := svc.UploadImage(context.Background(), owner, roles, benefit.ID, strings.NewReader("x"), 50*1024*1024)
	assert.Error(t, err)
}

func TestRecordClick(t *testing.T) {
	repo, svc := newBenefitFixture(t)

	benefit := repo.put(&models.Benefit{SupplierID: primitive.NewObjectID(), Status: models.BenefitStatusActive})

	require.NoError(t, svc.RecordClick(context.Background(), benefit.ID))
	require.NoError(t, svc.RecordClick(context.Background(), benefit.ID))

	after, err := repo.GetByID(context.Background(), benefit.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), after.ClickCount)
}
