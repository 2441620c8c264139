package middleware

import (
	"net/http"
	"strings"

	"go-rotc/internal/shared/contextutil"
	"go-rotc/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ActorHeader carries the caller id resolved by the upstream gateway.
const ActorHeader = "X-Actor-ID"

// RequireActor rejects requests that do not name the acting coordinator or cadet.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := strings.TrimSpace(c.GetHeader(ActorHeader))
		if actorID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing actor identity", nil)
			c.Abort()
			return
		}

		c.Set("actor_id", actorID)
		c.Request = c.Request.WithContext(contextutil.WithActorID(c.Request.Context(), actorID))
		c.Next()
	}
}
