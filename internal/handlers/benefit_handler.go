package handlers

import (
	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/internal/services"
	"campusperks/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BenefitHandler struct {
	benefitService services.BenefitService
}

func NewBenefitHandler(benefitService services.BenefitService) *BenefitHandler {
	return &BenefitHandler{
		benefitService: benefitService,
	}
}

// Create publishes a new benefit owned by the calling supplier.
func (h *BenefitHandler) Create(c *gin.Context) {
	supplierID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.CreateBenefitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	benefit, err := h.benefitService.Create(c.Request.Context(), supplierID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Benefit created", benefit)
}

// Get returns one benefit.
func (h *BenefitHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid benefit ID")
		return
	}

	benefit, err := h.benefitService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Benefit retrieved", benefit)
}

// List returns the catalogue, filterable by category, supplier and status.
func (h *BenefitHandler) List(c *gin.Context) {
	filter := interfaces.BenefitListFilter{}

	if categoryStr := c.Query("category"); categoryStr != "" {
		category := models.BenefitCategory(categoryStr)
		filter.Category = &category
	}
	if supplierIDStr := c.Query("supplier_id"); supplierIDStr != "" {
		supplierID, err := primitive.ObjectIDFromHex(supplierIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid supplier ID")
			return
		}
		filter.SupplierID = &supplierID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.BenefitStatus(statusStr)
		filter.Status = &status
	} else {
		// The public catalogue shows active benefits only.
		active := models.BenefitStatusActive
		filter.Status = &active
	}

	params := utils.GetPaginationParams(c)
	benefits, total, err := h.benefitService.List(c.Request.Context(), filter, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Benefits retrieved", benefits, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(benefits),
	})
}

// Update modifies a benefit. Ownership is enforced by the service.
func (h *BenefitHandler) Update(c *gin.Context) {
	actorID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	roles, ok := utils.GetRoleSet(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid benefit ID")
		return
	}

	var request models.UpdateBenefitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	benefit, err := h.benefitService.Update(c.Request.Context(), actorID, roles, id, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Benefit updated", benefit)
}

// Retire flips a benefit to inactive.
func (h *BenefitHandler) Retire(c *gin.Context) {
	actorID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	roles, ok := utils.GetRoleSet(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid benefit ID")
		return
	}

	if err := h.benefitService.Retire(c.Request.Context(), actorID, roles, id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Benefit retired", nil)
}

// RecordClick counts one catalogue click for ranking.
func (h *BenefitHandler) RecordClick(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid benefit ID")
		return
	}

	if err := h.benefitService.RecordClick(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Click recorded", nil)
}

// UploadImage attaches an image to a benefit.
func (h *BenefitHandler) UploadImage(c *gin.Context) {
	actorID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	roles, ok := utils.GetRoleSet(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid benefit ID")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "Image file required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read image")
		return
	}
	defer file.Close()

	url, err := h.benefitService.UploadImage(c.Request.Context(), actorID, roles, id, file, fileHeader.Size)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Image uploaded", gin.H{"image_url": url})
}
