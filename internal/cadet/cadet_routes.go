package cadet

import (
	"go-rotc/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	cadets := r.Group("/cadets")
	{
		cadets.GET("", h.GetAll)
		cadets.GET("/:id", h.GetByID)
		cadets.POST("", middleware.RequireActor(), h.Create)
	}
}
