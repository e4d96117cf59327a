package routes

import (
	"campusperks/internal/handlers"
	"campusperks/internal/middleware"
	"campusperks/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupStatsRoutes sets up the dashboard aggregates and the leaderboard.
func SetupStatsRoutes(r *gin.RouterGroup, statsHandler *handlers.StatsHandler, identity services.IdentityService, jwtSecret string) {
	stats := r.Group("/stats")
	stats.Use(middleware.AuthRequired(jwtSecret), middleware.RolesResolved(identity))
	{
		stats.GET("/redemptions", statsHandler.RedemptionStats)
	}

	leaderboard := r.Group("/leaderboard")
	leaderboard.Use(middleware.AuthRequired(jwtSecret))
	{
		leaderboard.GET("", statsHandler.Leaderboard)
	}
}
