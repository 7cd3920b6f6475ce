package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/ayuroot-be/types"
	"github.com/tieubaoca/ayuroot-be/utils"
)

// TokenCookie is the cookie set at login.
const TokenCookie = "token"

const userContextKey = "user"

// AuthMiddleware rejects requests without a valid user token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
				Success: false,
				Message: "Authorization token is required",
			})
			return
		}

		claims, err := utils.ParseUserToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.DataResponse{
				Success: false,
				Message: "Invalid token",
			})
			return
		}

		c.Set(userContextKey, claims)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// every request through.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if claims, err := utils.ParseUserToken(token, secret); err == nil {
				c.Set(userContextKey, claims)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the claims stored by the auth middleware.
func CurrentUser(c *gin.Context) (*utils.UserClaims, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.UserClaims)
	return claims, ok
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}
