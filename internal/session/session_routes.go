package session

import (
	"go-rotc/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// A cadet gets a handful of check-in attempts before being throttled.
const (
	checkInRatePerSecond = 0.5
	checkInBurst         = 5
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client, logger *zap.Logger) {
	sessions := r.Group("/sessions")
	{
		sessions.GET("", h.GetAll)
		sessions.GET("/:id", h.GetByID)
		sessions.GET("/:id/geofence", h.Geofence)
		sessions.POST("", middleware.RequireActor(), middleware.Idempotency(rdb, logger), h.Create)
		sessions.POST("/:id/end", middleware.RequireActor(), h.End)
		sessions.POST("/:id/check-ins",
			middleware.RequireActor(),
			middleware.RateLimitByActor(checkInRatePerSecond, checkInBurst),
			middleware.Idempotency(rdb, logger),
			h.CheckIn,
		)
	}
}
