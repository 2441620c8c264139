package session

import (
	"net/http"
	"strconv"
	"time"

	"go-rotc/internal/geofence"
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
	l := zap.L().Named("session.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("session request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	actorID := c.GetString("actor_id")
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create session validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), c.Query("unit_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := make([]SessionResponse, 0, len(resp))
		for _, s := range resp {
			if s.Status == status {
				filtered = append(filtered, s)
			}
		}
		resp = filtered
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) End(c *gin.Context) {
	resp, err := h.service.End(c.Request.Context(), c.Param("id"), c.GetString("actor_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Geofence(c *gin.Context) {
	segments, err := strconv.Atoi(c.DefaultQuery("segments", strconv.Itoa(geofence.DefaultSegments)))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidParameter, "segments must be an integer", nil)
		return
	}

	resp, err := h.service.Geofence(c.Request.Context(), c.Param("id"), segments)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// CheckIn stamps the submission with server time; clients cannot backdate.
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http check-in validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	point := geofence.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	resp, err := h.service.CheckIn(c.Request.Context(), c.Param("id"), req.CadetID, point, time.Time{})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}
