package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marklytics/marksheet-api/internal/service"
	"github.com/marklytics/marksheet-api/pkg/response"
)

// StatisticsHandler exposes cohort statistics endpoints.
type StatisticsHandler struct {
	stats *service.StatisticsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(stats *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Summary godoc
// @Summary Cohort statistics snapshot
// @Tags Statistics
// @Produce json
// @Param class query string true "Class"
// @Param academicYear query string true "Academic year"
// @Param examination query string true "Examination"
// @Success 200 {object} response.Envelope
// @Router /statistics/summary [get]
func (h *StatisticsHandler) Summary(c *gin.Context) {
	key, err := cohortKeyFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	stats, cached, err := h.stats.Summary(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, map[string]interface{}{"cached": cached})
}

// Comparison godoc
// @Summary Side-by-side comparative table for a cohort
// @Tags Statistics
// @Produce json
// @Param class query string true "Class"
// @Param academicYear query string true "Academic year"
// @Param examination query string true "Examination"
// @Success 200 {object} response.Envelope
// @Router /statistics/comparison [get]
func (h *StatisticsHandler) Comparison(c *gin.Context) {
	key, err := cohortKeyFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	table, cached, err := h.stats.Comparison(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, table, nil, map[string]interface{}{"cached": cached})
}

// System godoc
// @Summary Instrumentation snapshot
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics/system [get]
func (h *StatisticsHandler) System(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.stats.SystemMetrics(), nil)
}
