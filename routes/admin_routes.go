package routes

import (
	"campusperks/internal/handlers"
	"campusperks/internal/middleware"
	"campusperks/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up role membership management and the admin pass
// over the catalogue.
func SetupAdminRoutes(r *gin.RouterGroup, adminHandler *handlers.AdminHandler, benefitHandler *handlers.BenefitHandler, identity services.IdentityService, jwtSecret string) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.RolesResolved(identity), middleware.AdminRequired())
	{
		admin.POST("/roles/admins", adminHandler.GrantAdmin)
		admin.DELETE("/roles/admins/:id", adminHandler.RevokeAdmin)
		admin.POST("/roles/suppliers", adminHandler.GrantSupplier)
		admin.DELETE("/roles/suppliers/:id", adminHandler.RevokeSupplier)

		admin.PUT("/benefits/:id", benefitHandler.Update)
		admin.DELETE("/benefits/:id", benefitHandler.Retire)
	}
}
