package middleware

import (
	"net/http"
	"sekarnet/domain"

	"github.com/gin-gonic/gin"
)

// ActorFrom returns the actor stored by the auth middleware.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(domain.ActorContextKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}

// RequireAction rejects callers whose role is not allowed to perform action.
func RequireAction(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Access token required",
			})
			return
		}
		if !domain.Can(actor.Role, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Insufficient permissions",
			})
			return
		}
		c.Next()
	}
}
