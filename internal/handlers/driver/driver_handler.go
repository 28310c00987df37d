// internal/handlers/driver/driver_handler.go
package driver

import (
	"net/http"

	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/middleware"
	"ptieasy-service/internal/pkg/response"
	service "ptieasy-service/internal/service/inspection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DriverHandler serves the walkthrough to the driver the session is
// assigned to. Every call is scoped by the driver_ref of the token.
type DriverHandler struct {
	inspectionService *service.InspectionService
	logger            *zap.Logger
}

func NewDriverHandler(inspectionService *service.InspectionService, logger *zap.Logger) *DriverHandler {
	return &DriverHandler{
		inspectionService: inspectionService,
		logger:            logger,
	}
}

// ListSessions returns the sessions assigned to the current driver
func (h *DriverHandler) ListSessions(c *gin.Context) {
	sessions, err := h.inspectionService.ListDriverSessions(c.Request.Context(), middleware.GetDriverRef(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list sessions", err)
		return
	}

	response.Success(c, http.StatusOK, "sessions retrieved", gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetWalkthrough returns the current step of an active walkthrough
func (h *DriverHandler) GetWalkthrough(c *gin.Context) {
	step, err := h.inspectionService.CurrentStep(c.Request.Context(), middleware.GetDriverRef(c), c.Param("id"))
	if err != nil {
		response.Error(c, response.StatusFromError(err), "walkthrough not available", err)
		return
	}

	response.Success(c, http.StatusOK, "walkthrough retrieved", step)
}

// StartWalkthrough opens the walkthrough, or returns the one already open
func (h *DriverHandler) StartWalkthrough(c *gin.Context) {
	driverRef := middleware.GetDriverRef(c)
	sessionID := c.Param("id")

	step, err := h.inspectionService.StartWalkthrough(c.Request.Context(), driverRef, sessionID)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to start inspection", err)
		return
	}

	h.logger.Info("walkthrough started",
		zap.String("session_id", sessionID),
		zap.String("driver", driverRef),
		zap.Int("index", step.Index),
	)

	response.Success(c, http.StatusOK, "inspection started", step)
}

// Respond records the answer for the current item and advances
func (h *DriverHandler) Respond(c *gin.Context) {
	var req inspection.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	step, err := h.inspectionService.Respond(c.Request.Context(), middleware.GetDriverRef(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to record response", err)
		return
	}

	message := "response recorded"
	if step.Done {
		message = "inspection completed"
	}
	response.Success(c, http.StatusOK, message, step)
}

// Abandon leaves the walkthrough; answers are kept or discarded per policy
func (h *DriverHandler) Abandon(c *gin.Context) {
	result, err := h.inspectionService.Abandon(c.Request.Context(), middleware.GetDriverRef(c), c.Param("id"))
	if err != nil {
		response.Error(c, response.StatusFromError(err), "failed to abandon inspection", err)
		return
	}

	response.Success(c, http.StatusOK, "inspection abandoned", result)
}
