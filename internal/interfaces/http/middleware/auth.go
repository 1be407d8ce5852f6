package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yoquet/backend/internal/infrastructure/auth"
	"github.com/yoquet/backend/internal/interfaces/http/dto"
)

// Context keys set by the auth middleware
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyIsStaff  = "is_staff"
	ContextKeyToken    = "access_token"
)

// JWTAuth validates the bearer token and loads the caller identity into
// the request context
func JWTAuth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Missing authorization token")
			return
		}

		claims, err := jwtService.ValidateToken(token, auth.TokenTypeAccess)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		if revoked, err := blacklist.IsRevoked(c.Request.Context(), claims.ID); err != nil || revoked {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		identity, err := claims.Identity()
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextKeyUserID, identity.ID)
		c.Set(ContextKeyUsername, identity.Username)
		c.Set(ContextKeyIsStaff, identity.IsStaff)
		c.Set(ContextKeyToken, token)
		c.Next()
	}
}

// StaffOnly rejects callers without staff rights. It must run after
// JWTAuth.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextKeyIsStaff) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.ErrorResponse("FORBIDDEN", "Staff access required"))
			return
		}
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.ErrorResponse("UNAUTHORIZED", message))
}
