package term

import (
	"go-rotc/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	terms := r.Group("/terms")
	{
		terms.GET("", h.GetAll)
		terms.GET("/:id", h.GetByID)
		terms.POST("", middleware.RequireActor(), h.Create)
	}
}
