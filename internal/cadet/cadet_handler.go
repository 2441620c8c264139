package cadet

import (
	"net/http"
	"sort"
	"strings"

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
	l := zap.L().Named("cadet.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cadet.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("cadet request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCadetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create cadet validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// GetAll lists cadets, optionally by ?unit_id=, filtered by ?q= and sorted by ?sort_by=name|number.
func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context(), c.Query("unit_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	if q != "" {
		filtered := make([]CadetResponse, 0, len(resp))
		for _, r := range resp {
			if strings.Contains(strings.ToLower(r.FullName), q) || strings.Contains(strings.ToLower(r.CadetNumber), q) {
				filtered = append(filtered, r)
			}
		}
		resp = filtered
	}

	sortBy := strings.ToLower(c.DefaultQuery("sort_by", "number"))
	sort.SliceStable(resp, func(i, j int) bool {
		if sortBy == "name" {
			return strings.ToLower(resp[i].FullName) < strings.ToLower(resp[j].FullName)
		}
		return resp[i].CadetNumber < resp[j].CadetNumber
	})

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
