package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdfscrubber/pdf-scrubber/internal/application/service"
	"github.com/pdfscrubber/pdf-scrubber/internal/domain/workflow"
	"github.com/pdfscrubber/pdf-scrubber/internal/notify"
	"github.com/pdfscrubber/pdf-scrubber/internal/review"
	"github.com/pdfscrubber/pdf-scrubber/internal/scrubber"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	scrub  *service.ScrubService
	center *notify.Center
	logger *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(scrub *service.ScrubService, center *notify.Center, logger *zap.Logger) *Handlers {
	return &Handlers{
		scrub:  scrub,
		center: center,
		logger: logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// SelectFolderRequest represents the folder selection payload
type SelectFolderRequest struct {
	Path string `json:"path" binding:"required"`
}

// ApproveResponse represents the rename outcome in API responses
type ApproveResponse struct {
	Index   int    `json:"index"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// SelectFolder handles POST /api/folder
func (h *Handlers) SelectFolder(c *gin.Context) {
	var req SelectFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "path is required",
		})
		return
	}

	selection, err := h.scrub.SelectFolder(req.Path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scrubber.ErrDirectoryUnreadable) {
			status = http.StatusBadRequest
		}
		c.JSON(status, Response{
			Success: false,
			Error:   "failed to read folder",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    selection,
	})
}

// StartProcessing handles POST /api/process
func (h *Handlers) StartProcessing(c *gin.Context) {
	if err := h.scrub.StartProcessing(); err != nil {
		status := http.StatusConflict
		if errors.Is(err, service.ErrNoFolderSelected) {
			status = http.StatusBadRequest
		}
		c.JSON(status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, Response{Success: true})
}

// BatchStatus handles GET /api/batch
func (h *Handlers) BatchStatus(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.scrub.Status(),
	})
}

// ApproveItem handles POST /api/items/:index/approve
func (h *Handlers) ApproveItem(c *gin.Context) {
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}

	outcome, err := h.scrub.Approve(c.Request.Context(), index)
	if err != nil {
		h.decisionError(c, index, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: ApproveResponse{
			Index:   index,
			Success: outcome.Success,
			Error:   outcome.ErrorMessage,
		},
	})
}

// RejectItem handles POST /api/items/:index/reject
func (h *Handlers) RejectItem(c *gin.Context) {
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}

	if err := h.scrub.Reject(c.Request.Context(), index); err != nil {
		h.decisionError(c, index, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.center.Active(),
	})
}

// DismissNotification handles DELETE /api/notifications/:id
func (h *Handlers) DismissNotification(c *gin.Context) {
	id := c.Param("id")
	if !h.center.Dismiss(id) {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "notification not found",
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ExportReport handles GET /api/export
func (h *Handlers) ExportReport(c *gin.Context) {
	data, err := h.scrub.Report()
	if err != nil {
		h.logger.Error("Failed to render report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to render report",
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="batch-review.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handlers) itemIndex(c *gin.Context) (int, bool) {
	indexStr := c.Param("index")
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid item index",
		})
		return 0, false
	}
	return index, true
}

func (h *Handlers) decisionError(c *gin.Context, index int, err error) {
	switch {
	case errors.Is(err, review.ErrUnknownIndex):
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "item not found",
		})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, Response{
			Success: false,
			Error:   err.Error(),
		})
	default:
		h.logger.Error("Decision failed", zap.Int("index", index), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "decision failed",
		})
	}
}
