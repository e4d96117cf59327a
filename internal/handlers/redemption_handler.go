package handlers

import (
	"campusperks/internal/models"
	"campusperks/internal/services"
	"campusperks/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RedemptionHandler struct {
	redemptionService services.RedemptionService
	validationService services.ValidationService
}

func NewRedemptionHandler(redemptionService services.RedemptionService, validationService services.ValidationService) *RedemptionHandler {
	return &RedemptionHandler{
		redemptionService: redemptionService,
		validationService: validationService,
	}
}

// Create issues a new redemption for the authenticated user.
func (h *RedemptionHandler) Create(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.CreateRedemptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	benefitID, err := primitive.ObjectIDFromHex(request.BenefitID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid benefit ID")
		return
	}

	response, err := h.redemptionService.Create(c.Request.Context(), userID, benefitID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Redemption created", response)
}

// Validate consumes a scanned payload. Only admins and the owning supplier
// get through; the service refuses everyone else.
func (h *RedemptionHandler) Validate(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.ValidateRedemptionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.validationService.Validate(c.Request.Context(), userID, request.Payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Redemption validated", response)
}

// List returns the ledger slice the caller is scoped to.
func (h *RedemptionHandler) List(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	roles, ok := utils.GetRoleSet(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	filter := models.RedemptionFilter{}
	if benefitIDStr := c.Query("benefit_id"); benefitIDStr != "" {
		benefitID, err := primitive.ObjectIDFromHex(benefitIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid benefit ID")
			return
		}
		filter.BenefitID = &benefitID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := models.RedemptionStatus(statusStr)
		if status != models.RedemptionStatusValid && status != models.RedemptionStatusUsed {
			utils.BadRequestResponse(c, "Invalid status filter")
			return
		}
		filter.Status = &status
	}

	params := utils.GetPaginationParams(c)
	redemptions, total, err := h.redemptionService.List(c.Request.Context(), userID, roles, filter, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Redemptions retrieved", redemptions, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(redemptions),
	})
}
