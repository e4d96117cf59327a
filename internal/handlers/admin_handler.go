package handlers

import (
	"time"

	"campusperks/internal/models"
	"campusperks/internal/repositories/interfaces"
	"campusperks/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler manages role membership. Granting is inserting a membership
// record, revoking is deleting it; there is no intermediate state.
type AdminHandler struct {
	roleRepo interfaces.RoleRepository
}

func NewAdminHandler(roleRepo interfaces.RoleRepository) *AdminHandler {
	return &AdminHandler{
		roleRepo: roleRepo,
	}
}

type grantAdminRequest struct {
	PrincipalID string `json:"principal_id" binding:"required"`
}

type grantSupplierRequest struct {
	PrincipalID  string `json:"principal_id" binding:"required"`
	BusinessName string `json:"business_name" binding:"required"`
	ContactEmail string `json:"contact_email"`
	LogoURL      string `json:"logo_url"`
}

func (h *AdminHandler) GrantAdmin(c *gin.Context) {
	grantedBy, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request grantAdminRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	principalID, err := primitive.ObjectIDFromHex(request.PrincipalID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid principal ID")
		return
	}

	grant := &models.AdminGrant{
		PrincipalID: principalID,
		GrantedBy:   grantedBy,
		CreatedAt:   time.Now(),
	}
	if err := h.roleRepo.GrantAdmin(c.Request.Context(), grant); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Admin role granted", grant)
}

func (h *AdminHandler) RevokeAdmin(c *gin.Context) {
	principalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid principal ID")
		return
	}

	if err := h.roleRepo.RevokeAdmin(c.Request.Context(), principalID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Admin role revoked", nil)
}

func (h *AdminHandler) GrantSupplier(c *gin.Context) {
	var request grantSupplierRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	principalID, err := primitive.ObjectIDFromHex(request.PrincipalID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid principal ID")
		return
	}

	grant := &models.SupplierGrant{
		PrincipalID:  principalID,
		BusinessName: request.BusinessName,
		ContactEmail: request.ContactEmail,
		LogoURL:      request.LogoURL,
		CreatedAt:    time.Now(),
	}
	if err := h.roleRepo.GrantSupplier(c.Request.Context(), grant); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Supplier role granted", grant)
}

func (h *AdminHandler) RevokeSupplier(c *gin.Context) {
	principalID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid principal ID")
		return
	}

	if err := h.roleRepo.RevokeSupplier(c.Request.Context(), principalID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Supplier role revoked", nil)
}
