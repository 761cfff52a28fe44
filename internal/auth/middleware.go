package auth

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/i18n"
	"github.com/fekuna/omnipos-pharmacy-service/pkg/response"
	"github.com/gin-gonic/gin"
)

func bearer(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate rejects requests without a valid bearer token and stores the
// actor in the request context.
func Authenticate(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			response.Fail(c, http.StatusUnauthorized, i18n.MsgTokenMissing, nil)
			return
		}
		actor, err := tm.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, i18n.MsgTokenInvalid, nil)
			return
		}
		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// OptionalAuthenticate stores the actor when a valid token is present and
// lets anonymous requests through.
func OptionalAuthenticate(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearer(c); raw != "" {
			if actor, err := tm.Parse(raw); err == nil {
				c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
			}
		}
		c.Next()
	}
}

func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c.Request.Context())
		if !ok {
			response.Fail(c, http.StatusUnauthorized, i18n.MsgUnauthenticated, nil)
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		response.Fail(c, http.StatusForbidden, i18n.MsgForbidden, nil)
	}
}
