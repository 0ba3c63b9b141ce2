package middleware

import (
	"net/http"
	"strings"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// It checks for the presence and validity of a bearer token in the
// Authorization header and stores the caller identity in the context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		// Set user info in context for handlers to use
		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Set("superuser", claims.Superuser)

		c.Next()
	}
}

// ActorFromContext rebuilds the caller capability value stored by
// AuthMiddleware. The boolean is false on routes that skipped authentication.
func ActorFromContext(c *gin.Context) (service.Actor, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return service.Actor{}, false
	}
	username, _ := c.Get("username")
	role, _ := c.Get("role")
	superuser, _ := c.Get("superuser")

	actor := service.Actor{ID: userID.(string)}
	if s, ok := username.(string); ok {
		actor.Username = s
	}
	if s, ok := role.(string); ok {
		actor.Role = models.Role(s)
	}
	if b, ok := superuser.(bool); ok {
		actor.Superuser = b
	}
	return actor, true
}

// RequireAdmin restricts a route to admins. The admin role and the superuser
// flag are equivalent here.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}
		if !actor.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireModerator restricts a route to moderators and admins.
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}
		if !actor.CanModerate() {
			c.JSON(http.StatusForbidden, gin.H{"error": "moderator access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
