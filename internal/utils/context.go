package utils

import (
	"campusperks/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetUserID reads the authenticated principal id set by the auth middleware.
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

// GetRoleSet reads the roles resolved for this request.
func GetRoleSet(c *gin.Context) (models.RoleSet, bool) {
	value, exists := c.Get("role_set")
	if !exists {
		return nil, false
	}
	roles, ok := value.(models.RoleSet)
	return roles, ok
}

// GetRequestID reads the request id set by the request id middleware.
func GetRequestID(c *gin.Context) string {
	if value, exists := c.Get("request_id"); exists {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
