package attendance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	r.GET("/sessions/:id/records", h.ListBySession)

	cadets := r.Group("/cadets/:id/attendance")
	{
		cadets.GET("", h.Aggregate)
		cadets.GET("/records", h.ListByCadetAndTerm)
	}
}
