package grade

import (
	"go-rotc/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	grades := r.Group("/grades")
	{
		grades.POST("/preview", h.Preview)
		grades.GET("/:cadet_id/terms/:term_id", h.Get)
		grades.PUT("/:cadet_id/terms/:term_id", middleware.RequireActor(), h.Compute)
	}

	// shares the :id wildcard with the term routes
	r.GET("/terms/:id/grades", h.ListByTerm)
}
