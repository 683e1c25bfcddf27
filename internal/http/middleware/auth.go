package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// RequireAuth attaches the token's actor to the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireRole authenticates and then requires the actor to hold role.
func (am *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.authenticate(c) {
			return
		}
		actor := ctxutil.GetActor(c.Request.Context())
		if !strings.EqualFold(actor.Role, role) {
			am.log.Debug("role check failed", "actor_id", actor.UserID.String(), "role", actor.Role, "required", role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status": "error", "message": "Forbidden",
			})
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) authenticate(c *gin.Context) bool {
	if actor := ctxutil.GetActor(c.Request.Context()); actor != nil && actor.UserID != uuid.Nil {
		return true
	}
	tokenString := extractTokenFromAll(c)
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"status": "error", "message": "missing or invalid token",
		})
		return false
	}
	ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
	if err != nil {
		am.log.Debug("token rejected", "error", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"status": "error", "message": "missing or invalid token",
		})
		return false
	}
	c.Request = c.Request.WithContext(ctx)
	return true
}

// extractTokenFromAll accepts a query token for EventSource clients, which
// cannot set headers.
func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
