package routes

import (
	"campusperks/internal/handlers"
	"campusperks/internal/middleware"
	"campusperks/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupBenefitRoutes sets up the catalogue and the supplier management
// surface over it.
func SetupBenefitRoutes(r *gin.RouterGroup, benefitHandler *handlers.BenefitHandler, identity services.IdentityService, jwtSecret string) {
	benefits := r.Group("/benefits")
	benefits.Use(middleware.AuthRequired(jwtSecret))
	{
		benefits.GET("", benefitHandler.List)
		benefits.GET("/:id", benefitHandler.Get)
		benefits.POST("/:id/click", benefitHandler.RecordClick)
	}

	supplier := r.Group("/supplier/benefits")
	supplier.Use(middleware.AuthRequired(jwtSecret), middleware.RolesResolved(identity), middleware.SupplierRequired())
	{
		supplier.POST("", benefitHandler.Create)
		supplier.PUT("/:id", benefitHandler.Update)
		supplier.DELETE("/:id", benefitHandler.Retire)
		supplier.POST("/:id/image", benefitHandler.UploadImage)
	}
}
