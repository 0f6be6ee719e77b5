package routes

import (
	"contract-claims-api/controllers"
	"contract-claims-api/middleware"
	"contract-claims-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Contract Claims API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Common endpoints (all authenticated users)
			protected.GET("/statuses", controllers.GetClaimStatuses)

			// Claims
			claims := protected.Group("/claims")
			{
				// Lecturers and reviewers can view; ownership is checked
				// inside the handlers.
				claims.GET("", controllers.GetMyClaims)
				claims.GET("/:id", controllers.GetClaim)

				// Only lecturers submit claims and attach documents
				claims.POST("", middleware.RequireRole(models.RoleLecturer), controllers.CreateClaim)
				claims.POST("/:id/documents", middleware.RequireRole(models.RoleLecturer), controllers.UploadDocument)

				claims.GET("/:id/documents", controllers.GetClaimDocuments)
			}

			// Documents
			documents := protected.Group("/documents")
			{
				documents.GET("/download/:document_id", controllers.DownloadDocument)
			}

			// Coordinator review queue and decisions
			coordinator := protected.Group("/coordinator")
			coordinator.Use(middleware.RequireRole(models.RoleCoordinator))
			{
				coordinator.GET("/claims", controllers.GetCoordinatorQueue)
				coordinator.PUT("/claims/:id/status", controllers.UpdateClaimStatus)
				coordinator.GET("/claims/:id/evaluate", controllers.EvaluateClaim)
				coordinator.POST("/claims/:id/auto-approve", controllers.AutoApproveClaim)
				coordinator.POST("/claims/batch-approve", controllers.BatchApproveClaims)
			}

			// Manager review queue and decisions
			manager := protected.Group("/manager")
			manager.Use(middleware.RequireRole(models.RoleManager))
			{
				manager.GET("/claims", controllers.GetManagerQueue)
				manager.PUT("/claims/:id/status", controllers.UpdateClaimStatus)
				manager.GET("/claims/:id/evaluate", controllers.EvaluateClaim)
			}

			// HR payment processing and reporting
			hr := protected.Group("/hr")
			hr.Use(middleware.RequireRole(models.RoleHR))
			{
				hr.GET("/dashboard", controllers.GetHRDashboard)
				hr.POST("/payments", controllers.ProcessPayments)
				hr.POST("/invoices", controllers.GenerateInvoices)
				hr.GET("/reports/payments", controllers.GeneratePaymentReport)
				hr.GET("/reports/comprehensive", controllers.GenerateComprehensiveReport)
				hr.GET("/lecturers", controllers.GetLecturers)
				hr.PUT("/lecturers/rate", controllers.UpdateLecturerRate)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}
		}
	}
}
