package routes

import (
	"campusperks/internal/handlers"
	"campusperks/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up authentication and device registration routes.
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	devices := r.Group("/devices")
	devices.Use(middleware.AuthRequired(jwtSecret))
	{
		devices.POST("", authHandler.RegisterDevice)
	}
}
