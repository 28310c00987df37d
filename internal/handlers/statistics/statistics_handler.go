// internal/handlers/statistics/statistics_handler.go
package statistics

import (
	"bytes"
	"fmt"
	"net/http"

	"ptieasy-service/internal/domain/statistics"
	"ptieasy-service/internal/pkg/response"
	service "ptieasy-service/internal/service/statistics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatisticsHandler struct {
	statisticsService *service.StatisticsService
	logger            *zap.Logger
}

func NewStatisticsHandler(statisticsService *service.StatisticsService, logger *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		statisticsService: statisticsService,
		logger:            logger,
	}
}

// GetDashboard returns the fleet overview
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	summary, err := h.statisticsService.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to get dashboard", err)
		return
	}

	response.Success(c, http.StatusOK, "dashboard retrieved", summary)
}

// GetStatistics returns the report for ?range= (default 30d)
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, "statistics retrieved", report)
}

// ExportStatistics sends the report as a CSV attachment
func (h *StatisticsHandler) ExportStatistics(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}

	// Render fully before writing headers so a failure still gets an envelope.
	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, report); err != nil {
		h.logger.Error("failed to render statistics export", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to export statistics", err)
		return
	}

	filename := service.ExportFilename(report)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *StatisticsHandler) report(c *gin.Context) (*statistics.Report, bool) {
	timeRange, err := statistics.ParseTimeRange(c.Query("range"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid range", err)
		return nil, false
	}

	report, err := h.statisticsService.Report(c.Request.Context(), timeRange)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to build statistics", err)
		return nil, false
	}
	return report, true
}
