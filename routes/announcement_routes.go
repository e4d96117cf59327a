package routes

import (
	"campusperks/internal/handlers"
	"campusperks/internal/middleware"
	"campusperks/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupAnnouncementRoutes sets up the public feed, the supplier submission
// surface, and the admin moderation queue.
func SetupAnnouncementRoutes(r *gin.RouterGroup, announcementHandler *handlers.AnnouncementHandler, identity services.IdentityService, jwtSecret string) {
	announcements := r.Group("/announcements")
	announcements.Use(middleware.AuthRequired(jwtSecret))
	{
		announcements.GET("", announcementHandler.ListApproved)
	}

	supplier := r.Group("/supplier/announcements")
	supplier.Use(middleware.AuthRequired(jwtSecret), middleware.RolesResolved(identity), middleware.SupplierRequired())
	{
		supplier.POST("", announcementHandler.Create)
		supplier.GET("", announcementHandler.ListMine)
	}

	admin := r.Group("/admin/announcements")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.RolesResolved(identity), middleware.AdminRequired())
	{
		admin.GET("", announcementHandler.ListPending)
		admin.PUT("/:id/decision", announcementHandler.Decide)
	}
}
