// internal/app/router.go
package app

import (
	"net/http"

	"ptieasy-service/internal/domain/auth"
	authHandler "ptieasy-service/internal/handlers/auth"
	driverHandler "ptieasy-service/internal/handlers/driver"
	employeeHandler "ptieasy-service/internal/handlers/employee"
	inspectionHandler "ptieasy-service/internal/handlers/inspection"
	navigationHandler "ptieasy-service/internal/handlers/navigation"
	notifyHandler "ptieasy-service/internal/handlers/notification"
	statisticsHandler "ptieasy-service/internal/handlers/statistics"
	vehicleHandler "ptieasy-service/internal/handlers/vehicle"
	wsHandler "ptieasy-service/internal/handlers/websocket"
	"ptieasy-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler       *authHandler.AuthHandler
	NotifHandler      *notifyHandler.NotificationHandler
	EmployeeHandler   *employeeHandler.EmployeeHandler
	VehicleHandler    *vehicleHandler.VehicleHandler
	SessionHandler    *inspectionHandler.SessionHandler
	DriverHandler     *driverHandler.DriverHandler
	StatisticsHandler *statisticsHandler.StatisticsHandler
	NavigationHandler *navigationHandler.NavigationHandler
	WSHandler         *wsHandler.WebSocketHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Navigation Gate ====================
	api.GET("/navigate", h.AuthMiddleware.OptionalAuth(), h.NavigationHandler.Navigate)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.GET("/me", h.AuthHandler.GetMe)
		authProtected.GET("/sessions", h.AuthHandler.GetActiveSessions)
	}

	// ==================== Notifications ====================
	notifications := api.Group("/notifications")
	notifications.Use(h.AuthMiddleware.Auth())
	{
		notifications.GET("", h.NotifHandler.GetNotifications)
		notifications.GET("/count/unread", h.NotifHandler.GetUnreadCount)
		notifications.GET("/summary", h.NotifHandler.GetSummary)
		notifications.PUT("/:id/read", h.NotifHandler.MarkAsRead)
		notifications.PUT("/read-all", h.NotifHandler.MarkAllAsRead)
		notifications.DELETE("/:id", h.NotifHandler.DeleteNotification)
		notifications.POST("", h.AuthMiddleware.RequireRole(auth.RoleManager), h.NotifHandler.CreateNotification)
	}

	// ==================== Manager Routes ====================
	manager := api.Group("")
	manager.Use(h.AuthMiddleware.ManagerOnly()...)
	{
		manager.GET("/dashboard", h.StatisticsHandler.GetDashboard)

		employees := manager.Group("/employees")
		{
			employees.GET("", h.EmployeeHandler.ListEmployees)
			employees.POST("", h.EmployeeHandler.CreateEmployee)
			employees.GET("/:id", h.EmployeeHandler.GetEmployee)
			employees.PUT("/:id", h.EmployeeHandler.UpdateEmployee)
			employees.DELETE("/:id", h.EmployeeHandler.DeleteEmployee)
		}

		vehicles := manager.Group("/vehicles")
		{
			vehicles.GET("", h.VehicleHandler.ListVehicles)
			vehicles.POST("", h.VehicleHandler.CreateVehicle)
			vehicles.GET("/:id", h.VehicleHandler.GetVehicle)
			vehicles.PUT("/:id", h.VehicleHandler.UpdateVehicle)
			vehicles.DELETE("/:id", h.VehicleHandler.DeleteVehicle)
		}

		sessions := manager.Group("/pti-sessions")
		{
			sessions.GET("", h.SessionHandler.ListSessions)
			sessions.GET("/stats", h.SessionHandler.GetStats)
			sessions.POST("", h.SessionHandler.CreateSession)
			sessions.POST("/bulk", h.SessionHandler.BulkCreateSessions)
			sessions.GET("/:id", h.SessionHandler.GetSession)
			sessions.PUT("/:id", h.SessionHandler.UpdateSession)
			sessions.DELETE("/:id", h.SessionHandler.DeleteSession)
		}

		stats := manager.Group("/statistics")
		{
			stats.GET("", h.StatisticsHandler.GetStatistics)
			stats.GET("/export", h.StatisticsHandler.ExportStatistics)
		}

		manager.GET("/ws/stats", h.WSHandler.GetStats)
	}

	// ==================== Driver Routes ====================
	driver := api.Group("/driver")
	driver.Use(h.AuthMiddleware.DriverOnly()...)
	{
		driver.GET("/sessions", h.DriverHandler.ListSessions)
		driver.GET("/sessions/:id/walkthrough", h.DriverHandler.GetWalkthrough)
		driver.POST("/sessions/:id/start", h.DriverHandler.StartWalkthrough)
		driver.POST("/sessions/:id/respond", h.DriverHandler.Respond)
		driver.POST("/sessions/:id/abandon", h.DriverHandler.Abandon)
	}

	r.NoRoute(middleware.NoRoute())

	logger.Debug("routes registered", zap.Int("count", len(r.Routes())))
}
