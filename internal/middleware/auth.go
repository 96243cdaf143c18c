package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/handlers"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/utils"
)

// OptionalAuth identifies the caller when a bearer token is present. Requests without an
// Authorization header pass through anonymously; a bad token is rejected.
func OptionalAuth(tokens *utils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			handlers.WriteCallableError(c, handlers.Unauthenticated("Authorization header must be a bearer token"))
			return
		}

		claims, err := tokens.ValidateJWT(tokenString)
		if err != nil {
			handlers.WriteCallableError(c, handlers.Unauthenticated("Invalid token"))
			return
		}

		c.Set(handlers.ContextCallerID, claims.UserID)
		c.Set(handlers.ContextCallerRole, claims.Role)
		c.Next()
	}
}
