package handlers

import (
	"errors"
	"net/http"

	"campusperks/internal/utils"
	apperrors "campusperks/pkg/errors"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service sentinels onto HTTP statuses. A
// malformed payload is a client error and is never reported as "not found";
// contention refusals are conflicts.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrMalformedCode):
		utils.ErrorResponse(c, http.StatusBadRequest, "MALFORMED_CODE", "Redemption code is malformed")
	case errors.Is(err, apperrors.ErrInvalidImage):
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_IMAGE", "File is not a supported image")
	case errors.Is(err, apperrors.ErrNotFound):
		utils.NotFoundResponse(c, "Resource")
	case errors.Is(err, apperrors.ErrForbidden):
		utils.ForbiddenResponse(c)
	case errors.Is(err, apperrors.ErrAlreadyUsed):
		utils.ConflictResponse(c, "ALREADY_USED", "Redemption has already been used")
	case errors.Is(err, apperrors.ErrOutOfStock):
		utils.ConflictResponse(c, "OUT_OF_STOCK", "Benefit is out of stock")
	case errors.Is(err, apperrors.ErrInactive):
		utils.ConflictResponse(c, "INACTIVE", "Benefit is not active")
	case errors.Is(err, apperrors.ErrSlotTaken):
		utils.ConflictResponse(c, "SLOT_TAKEN", "Appointment slot is already booked")
	case errors.Is(err, apperrors.ErrAlreadyDecided):
		utils.ConflictResponse(c, "ALREADY_DECIDED", "Announcement has already been decided")
	case errors.Is(err, apperrors.ErrUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "UNAVAILABLE", "Service temporarily unavailable")
	default:
		utils.InternalServerErrorResponse(c)
	}
}
