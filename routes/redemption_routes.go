package routes

import (
	"campusperks/internal/handlers"
	"campusperks/internal/middleware"
	"campusperks/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRedemptionRoutes sets up the ledger surface. Validation is not
// role-gated here; the validation service decides who may validate, so an
// unauthorized attempt gets a clean 403 instead of a routing 404.
func SetupRedemptionRoutes(r *gin.RouterGroup, redemptionHandler *handlers.RedemptionHandler, identity services.IdentityService, jwtSecret string) {
	redemptions := r.Group("/redemptions")
	redemptions.Use(middleware.AuthRequired(jwtSecret), middleware.RolesResolved(identity))
	{
		redemptions.POST("", redemptionHandler.Create)
		redemptions.GET("", redemptionHandler.List)
		redemptions.POST("/validate", redemptionHandler.Validate)
	}
}
