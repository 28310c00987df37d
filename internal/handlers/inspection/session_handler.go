// internal/handlers/inspection/session_handler.go
package inspection

import (
	"net/http"

	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/pkg/response"
	service "ptieasy-service/internal/service/inspection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionHandler struct {
	inspectionService *service.InspectionService
	logger            *zap.Logger
}

func NewSessionHandler(inspectionService *service.InspectionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		inspectionService: inspectionService,
		logger:            logger,
	}
}

// ========== Assignment ==========

// CreateSession assigns a PTI to a driver
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req inspection.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.inspectionService.CreateSession(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to create session", err)
		return
	}

	response.Success(c, http.StatusCreated, "session created successfully", result)
}

// BulkCreateSessions assigns several PTIs; nothing is created if any entry
// is invalid
func (h *SessionHandler) BulkCreateSessions(c *gin.Context) {
	var req inspection.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.inspectionService.BulkCreateSessions(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("bulk assign rejected", zap.Int("count", len(req.Sessions)), zap.Error(err))
		response.Error(c, response.StatusFromError(err), "failed to create sessions", err)
		return
	}

	response.Success(c, http.StatusCreated, "sessions created successfully", gin.H{
		"sessions": result,
		"count":    len(result),
	})
}

// GetSession retrieves a session by ID
func (h *SessionHandler) GetSession(c *gin.Context) {
	result, err := h.inspectionService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, response.StatusFromError(err), "session not found", err)
		return
	}

	response.Success(c, http.StatusOK, "session retrieved", result)
}

// UpdateSession changes the assignment of a session
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	var req inspection.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.inspectionService.UpdateSession(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to update session", err)
		return
	}

	response.Success(c, http.StatusOK, "session updated successfully", result)
}

// DeleteSession removes a session
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.inspectionService.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, response.StatusFromError(err), "failed to delete session", err)
		return
	}

	response.Success(c, http.StatusOK, "session deleted successfully", nil)
}

// ========== Listing ==========

// ListSessions retrieves sessions with filters
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var filters inspection.SessionListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	result, err := h.inspectionService.ListSessions(c.Request.Context(), &filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list sessions", err)
		return
	}

	response.Success(c, http.StatusOK, "sessions retrieved", result)
}

// GetStats returns session counts by derived status
func (h *SessionHandler) GetStats(c *gin.Context) {
	stats, err := h.inspectionService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to get session stats", err)
		return
	}

	response.Success(c, http.StatusOK, "session stats retrieved", stats)
}
