package middleware

import (
	"strings"

	"campusperks/internal/models"
	"campusperks/internal/services"
	"campusperks/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and sets the principal id on the
// context. Roles are NOT taken from the token; RolesResolved does a fresh
// membership lookup so revocations apply immediately.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}

// RolesResolved resolves the principal's roles from the membership
// collections and stores them for downstream handlers. Must run after
// AuthRequired.
func RolesResolved(identity services.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := utils.GetUserID(c)
		if !ok {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		roles := identity.Resolve(c.Request.Context(), userID)
		c.Set("role_set", roles)

		// String form for components outside this package (websocket hub).
		names := make([]string, 0, len(roles))
		for _, role := range roles.List() {
			names = append(names, string(role))
		}
		c.Set("roles", names)

		c.Next()
	}
}

// AdminRequired gates a route on the admin role. Run after RolesResolved.
func AdminRequired() gin.HandlerFunc {
	return requireRole(models.RoleAdmin)
}

// SupplierRequired gates a route on the supplier role. Admins pass too so
// they can operate any supplier surface.
func SupplierRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := utils.GetRoleSet(c)
		if !ok {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		if !roles.Has(models.RoleSupplier) && !roles.Has(models.RoleAdmin) {
			utils.ForbiddenResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

func requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := utils.GetRoleSet(c)
		if !ok {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		if !roles.Has(role) {
			utils.ForbiddenResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
