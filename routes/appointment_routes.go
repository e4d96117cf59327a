package routes

import (
	"campusperks/internal/handlers"
	"campusperks/internal/middleware"
	"campusperks/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupAppointmentRoutes sets up slot browsing and booking for users and
// slot management for suppliers.
func SetupAppointmentRoutes(r *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler, identity services.IdentityService, jwtSecret string) {
	slots := r.Group("/slots")
	slots.Use(middleware.AuthRequired(jwtSecret))
	{
		slots.GET("", appointmentHandler.ListAvailable)
		slots.POST("/:id/book", appointmentHandler.Book)
		slots.DELETE("/:id/book", appointmentHandler.Cancel)
	}

	supplier := r.Group("/supplier/slots")
	supplier.Use(middleware.AuthRequired(jwtSecret), middleware.RolesResolved(identity), middleware.SupplierRequired())
	{
		supplier.POST("", appointmentHandler.CreateSlot)
		supplier.GET("", appointmentHandler.ListMine)
	}
}
