package routes

import (
	"github.com/gin-gonic/gin"

	"health-portal-server/internal/config"
	"health-portal-server/internal/handlers"
	"health-portal-server/internal/middleware"
	"health-portal-server/internal/models"
	"health-portal-server/internal/repository"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, repo *repository.Repository, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(repo, cfg)
	userHandler := handlers.NewUserHandler(repo)
	recordHandler := handlers.NewMedicalRecordHandler(repo)
	appointmentHandler := handlers.NewAppointmentHandler(repo)
	messageHandler := handlers.NewMessageHandler(repo)
	careHandler := handlers.NewCareHandler(repo)

	// Public routes
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
			authRoutes.POST("/send-otp", authHandler.SendOTP)
			authRoutes.POST("/verify-otp", authHandler.VerifyOTP)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
		}

		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/:id", userHandler.GetUser)
			userRoutes.PUT("/profile", userHandler.UpdateProfile)
			userRoutes.GET("/directory", userHandler.SearchDirectory)
			userRoutes.POST("/connect", userHandler.Connect)
			userRoutes.GET("/contacts", userHandler.GetContacts)
			userRoutes.GET("/patients",
				middleware.RoleAuthMiddleware(models.RoleProvider, models.RoleAdmin), userHandler.GetPatients)
			userRoutes.GET("/dependents", userHandler.GetDependents)
			userRoutes.POST("/dependents", userHandler.AddDependent)
			userRoutes.POST("/switch-profile", userHandler.SwitchProfile)
		}

		// Snapshot export/import is an admin maintenance surface.
		adminRoutes := private.Group("/admin")
		adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminRoutes.GET("/export", userHandler.ExportDatabase)
			adminRoutes.POST("/import", userHandler.ImportDatabase)
		}

		recordRoutes := private.Group("/medical-records")
		{
			recordRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RoleProvider, models.RoleAdmin), recordHandler.CreateRecord)
			recordRoutes.GET("", recordHandler.GetRecords)
			recordRoutes.POST("/:id/share",
				middleware.RoleAuthMiddleware(models.RolePatient), recordHandler.ShareRecord)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("",
				middleware.RoleAuthMiddleware(models.RolePatient), appointmentHandler.BookAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.PATCH("/:id/confirm",
				middleware.RoleAuthMiddleware(models.RoleProvider, models.RoleAdmin), appointmentHandler.ConfirmAppointment)
		}

		messageRoutes := private.Group("/messages")
		{
			messageRoutes.POST("/send", messageHandler.SendMessage)
			messageRoutes.GET("/conversation/:userId", messageHandler.GetConversation)
		}

		careRoutes := private.Group("/care")
		{
			careRoutes.GET("/notifications", careHandler.GetNotifications)
			careRoutes.GET("/wearables", careHandler.GetWearables)
			careRoutes.POST("/wellness", careHandler.AddWellnessEntry)
			careRoutes.POST("/emergency", careHandler.TriggerEmergency)
			careRoutes.GET("/risks", careHandler.GetRisks)
			careRoutes.POST("/risks/generate", careHandler.GenerateRiskPrediction)

			providerCare := careRoutes.Group("")
			providerCare.Use(middleware.RoleAuthMiddleware(models.RoleProvider, models.RoleAdmin))
			{
				providerCare.GET("/alerts", careHandler.GetEmergencyAlerts)
				providerCare.POST("/tasks", careHandler.CreateTask)
				providerCare.GET("/tasks", careHandler.GetTasks)
			}
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
