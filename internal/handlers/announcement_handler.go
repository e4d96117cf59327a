package handlers

import (
	"campusperks/internal/models"
	"campusperks/internal/services"
	"campusperks/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnnouncementHandler struct {
	announcementService services.AnnouncementService
}

func NewAnnouncementHandler(announcementService services.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
	}
}

// Create submits a post into the moderation queue.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	supplierID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	announcement, err := h.announcementService.Create(c.Request.Context(), supplierID, &request)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Announcement submitted for review", announcement)
}

// ListApproved is the public feed.
func (h *AnnouncementHandler) ListApproved(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	announcements, total, err := h.announcementService.ListApproved(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Announcements retrieved", announcements, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(announcements),
	})
}

// ListPending is the admin moderation queue.
func (h *AnnouncementHandler) ListPending(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	announcements, total, err := h.announcementService.ListPending(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Pending announcements retrieved", announcements, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(announcements),
	})
}

// ListMine returns the calling supplier's own posts, all statuses.
func (h *AnnouncementHandler) ListMine(c *gin.Context) {
	supplierID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	announcements, total, err := h.announcementService.ListMine(c.Request.Context(), supplierID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Announcements retrieved", announcements, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(announcements),
	})
}

// Decide approves or rejects a pending announcement.
func (h *AnnouncementHandler) Decide(c *gin.Context) {
	reviewerID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid announcement ID")
		return
	}

	var request struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	announcement, err := h.announcementService.Decide(c.Request.Context(), reviewerID, id, request.Approve)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Announcement decided", announcement)
}
