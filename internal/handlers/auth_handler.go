package handlers

import (
	"errors"

	"campusperks/internal/models"
	"campusperks/internal/services"
	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account for a verified campus identity and returns
// a token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var request models.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	tokens, user, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Registered successfully", gin.H{
		"tokens": tokens,
		"user":   user,
	})
}

// Login exchanges a verified email for a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	tokens, user, err := h.authService.Login(c.Request.Context(), request.Email)
	if err != nil {
		// An unknown email reads the same as a refused one.
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrForbidden) {
			utils.UnauthorizedResponse(c)
			return
		}
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Logged in successfully", gin.H{
		"tokens": tokens,
		"user":   user,
	})
}

// Refresh mints a new token pair from a refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var request struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), request.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c)
		return
	}

	utils.SuccessResponse(c, "Token refreshed", tokens)
}

// RegisterDevice stores a push token for the authenticated user.
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	err := h.authService.RegisterDevice(c.Request.Context(), userID, models.DeviceToken{
		Token:    request.Token,
		Platform: request.Platform,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Device registered", nil)
}
