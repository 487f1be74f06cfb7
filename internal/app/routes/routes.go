package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kerem/doctrack/internal/app/controllers"
	"github.com/kerem/doctrack/internal/app/models"
	"github.com/kerem/doctrack/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	requestController *controllers.RequestController,
	notificationController *controllers.NotificationController,
	analyticsController *controllers.AnalyticsController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/users/me", authController.Me)

		requests := authenticated.Group("/requests")
		{
			requests.POST("", authMiddleware.RoleRequired(models.RoleStudent), requestController.Create)
			requests.GET("", requestController.List)
			requests.GET("/all", authMiddleware.RoleRequired(models.RoleAdmin), requestController.ListAll)
			requests.GET("/:id", requestController.GetByID)
			requests.PATCH("/:id", authMiddleware.RoleRequired(models.RoleStaff, models.RoleAdmin), requestController.Update)
			requests.PUT("/:id/edit", authMiddleware.RoleRequired(models.RoleStudent), requestController.Edit)
			requests.POST("/:id/documents", requestController.RegisterDocument)
		}

		authenticated.GET("/documents/:id", requestController.GetDocument)

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.List)
			notifications.GET("/unread-count", notificationController.UnreadCount)
			notifications.PATCH("/:id/read", notificationController.MarkRead)
			notifications.PATCH("/read-all", notificationController.MarkAllRead)
		}

		authenticated.GET("/analytics",
			authMiddleware.RoleRequired(models.RoleStaff, models.RoleAdmin),
			analyticsController.Get)

		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/users", adminController.ListUsers)
			admin.POST("/users", adminController.CreateUser)
			admin.DELETE("/users/:id", adminController.DeleteUser)
			admin.GET("/staff", adminController.ListStaff)
			admin.GET("/data/summary", adminController.DataSummary)
			admin.POST("/data/clear", adminController.ClearData)
		}
	}
}
