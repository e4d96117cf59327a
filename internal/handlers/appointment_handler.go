package handlers

import (
	"campusperks/internal/models"
	"campusperks/internal/services"
	"campusperks/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentHandler struct {
	appointmentService services.AppointmentService
}

func NewAppointmentHandler(appointmentService services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentService: appointmentService,
	}
}

// CreateSlot publishes a bookable window for the calling supplier.
func (h *AppointmentHandler) CreateSlot(c *gin.Context) {
	supplierID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request models.CreateSlotRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	slot, err := h.appointmentService.CreateSlot(c.Request.Context(), supplierID, &request)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, "Slot created", slot)
}

// ListAvailable returns open slots across all suppliers.
func (h *AppointmentHandler) ListAvailable(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	slots, total, err := h.appointmentService.ListAvailable(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Slots retrieved", slots, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(slots),
	})
}

// ListMine returns the calling supplier's slots, booked and open.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	supplierID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	slots, total, err := h.appointmentService.ListBySupplier(c.Request.Context(), supplierID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Slots retrieved", slots, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(slots),
	})
}

// Book claims an available slot for the authenticated user.
func (h *AppointmentHandler) Book(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid slot ID")
		return
	}

	slot, err := h.appointmentService.Book(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Slot booked", slot)
}

// Cancel releases a slot the authenticated user booked.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID, ok := utils.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid slot ID")
		return
	}

	if err := h.appointmentService.Cancel(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking cancelled", nil)
}
