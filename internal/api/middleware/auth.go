// server/internal/api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"agrifield-api-server/internal/auth"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context keys set by Authenticate.
const (
	CtxUserID = "user_id"
	CtxEmail  = "user_email"
)

// Authenticate validates the bearer token and puts the caller's identity into
// the request context. Every protected route runs through this before any
// business logic.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxEmail, claims.Email)

		c.Next()
	}
}

// UserID pulls the authenticated user's id out of the gin context.
func UserID(c *gin.Context) primitive.ObjectID {
	id, _ := c.Get(CtxUserID)
	oid, _ := id.(primitive.ObjectID)
	return oid
}
