package routes

import (
	"campusperks/internal/middleware"
	"campusperks/internal/services"
	"campusperks/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// SetupFeedRoutes sets up the live dashboard websocket. Roles are resolved
// before the upgrade so the hub can place the client in its rooms.
func SetupFeedRoutes(r *gin.RouterGroup, wsHandler *websocket.Handler, identity services.IdentityService, jwtSecret string) {
	feed := r.Group("/supplier/feed")
	feed.Use(middleware.AuthRequired(jwtSecret), middleware.RolesResolved(identity), middleware.SupplierRequired())
	{
		feed.GET("", wsHandler.HandleWebSocket)
	}
}
