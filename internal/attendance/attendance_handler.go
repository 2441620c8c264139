package attendance

import (
	"net/http"

	"go-rotc/internal/shared/apperror"
	"go-rotc/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) ListBySession(c *gin.Context) {
	resp, err := h.service.ListBySession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) ListByCadetAndTerm(c *gin.Context) {
	resp, err := h.service.ListByCadetAndTerm(c.Request.Context(), c.Param("id"), c.Query("term_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) Aggregate(c *gin.Context) {
	cadetID := c.Param("id")
	termID := c.Query("term_id")
	h.logger.Debug("http attendance aggregate", zap.String("cadet_id", cadetID), zap.String("term_id", termID))

	n, err := h.service.Aggregate(c.Request.Context(), cadetID, termID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, AggregateResponse{
		CadetID:     cadetID,
		TermID:      termID,
		DaysPresent: n,
		CountsLate:  h.service.CountsLate(),
	}, nil)
}
