package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary Overall statistics
// @Description Status and category counts, resolution rate and time, users by role and top departments
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Overview
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/overall [get]
func (h *Handler) overallAnalytics(c *gin.Context) {
	log := h.logger.WithField("method", "overallAnalytics")

	overview, err := h.analyticsService.Overview(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// @Summary Department metrics
// @Description Per department totals, resolution rate and average resolution time. Government only.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.DepartmentStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Government role required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/departments [get]
func (h *Handler) departmentAnalytics(c *gin.Context) {
	log := h.logger.WithField("method", "departmentAnalytics")

	stats, err := h.analyticsService.DepartmentMetrics(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary Citizen leaderboard
// @Description Top citizens by engagement points
// @Tags Analytics
// @Produce json
// @Param limit query int false "Number of entries" default(10)
// @Success 200 {array} models.LeaderboardEntry
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/leaderboard [get]
func (h *Handler) leaderboard(c *gin.Context) {
	log := h.logger.WithField("method", "leaderboard")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.analyticsService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// @Summary Issue trends
// @Description Issues created per day, week or month by current status and by category. An explicit from..to range overrides period.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "week, month, quarter or year" default(month)
// @Param from query string false "Range start, YYYY-MM-DD"
// @Param to query string false "Range end, YYYY-MM-DD"
// @Success 200 {object} models.Trends
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/trends [get]
func (h *Handler) trendAnalytics(c *gin.Context) {
	log := h.logger.WithField("method", "trendAnalytics")
	var query TrendsQuery
	if !h.bindQuery(c, log, &query) {
		return
	}

	trends, err := h.analyticsService.Trends(c.Request.Context(), QueryToTrendQuery(query))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, trends)
}

// @Summary Issue heatmap
// @Description Weighted issue points inside the map bounds with category and status counts
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param north query number false "North bound"
// @Param south query number false "South bound"
// @Param east query number false "East bound"
// @Param west query number false "West bound"
// @Param category query string false "Category filter"
// @Param status query string false "Status filter"
// @Param from query string false "Created from, YYYY-MM-DD"
// @Param to query string false "Created to, YYYY-MM-DD"
// @Success 200 {object} models.Heatmap
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/heatmap [get]
func (h *Handler) heatmapAnalytics(c *gin.Context) {
	log := h.logger.WithField("method", "heatmapAnalytics")
	var query HeatmapQuery
	if !h.bindQuery(c, log, &query) {
		return
	}
	if n := query.boundsCount(); n != 0 && n != 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "north, south, east and west must be given together"})
		return
	}

	heatmap, err := h.analyticsService.Heatmap(c.Request.Context(), QueryToHeatmapFilter(query))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, heatmap)
}
