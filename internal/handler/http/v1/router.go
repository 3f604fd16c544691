package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/civic_issue_tracker/internal/models"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	authenticated := AuthMiddleware(h.tokens, h.logger)
	citizenOnly := RequireRole(models.RoleCitizen)
	governmentOnly := RequireRole(models.RoleGovernment)

	// Регистрация и вход
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/me", authenticated, h.me)
		authGroup.POST("/logout", h.logout)
	}

	// Жизненный цикл заявок; чтение открыто
	issues := api.Group("/issues")
	{
		issues.POST("", authenticated, citizenOnly, h.rateLimiter, h.createIssue)
		issues.GET("", h.listIssues)
		issues.GET("/nearby", h.nearbyIssues)
		issues.GET("/mine", authenticated, h.myIssues)
		issues.POST("/classify", authenticated, h.classifyIssue)
		issues.GET("/:id", h.getIssue)
		issues.PUT("/:id/status", authenticated, governmentOnly, h.updateIssueStatus)
		issues.PUT("/:id/assign", authenticated, governmentOnly, h.assignIssue)
		issues.POST("/:id/upvote", authenticated, citizenOnly, h.upvoteIssue)
		issues.POST("/:id/resolution", authenticated, governmentOnly, h.addResolution)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", authenticated, h.listNotifications)
		notifications.PUT("/read", authenticated, h.markNotificationsRead)
		notifications.DELETE("", authenticated, h.deleteNotifications)
		notifications.POST("", APIKeyAuthMiddleware(h.cfg, h.logger), h.createNotification)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/overall", authenticated, h.overallAnalytics)
		analytics.GET("/departments", authenticated, governmentOnly, h.departmentAnalytics)
		analytics.GET("/leaderboard", h.leaderboard)
		analytics.GET("/trends", authenticated, h.trendAnalytics)
		analytics.GET("/heatmap", authenticated, h.heatmapAnalytics)
	}

	// Оповещения о чрезвычайных ситуациях
	alerts := api.Group("/alerts")
	{
		alerts.GET("", authenticated, h.listAlerts)
		alerts.POST("", authenticated, governmentOnly, h.createAlert)
		alerts.PUT("/:id/status", authenticated, governmentOnly, h.updateAlertStatus)
	}

	api.GET("/events/stream", authenticated, h.streamEvents)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
