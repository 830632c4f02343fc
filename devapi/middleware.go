package devapi

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxUserID = "user_id"

// AuthRequired rejects requests without a valid Bearer token with 401.
func AuthRequired(tokens *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			log.Println("DevAPI: no bearer token on protected route")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			log.Printf("DevAPI: invalid token: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}
