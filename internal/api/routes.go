package api

import (
	"gymnotes/training-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer talks to.
type Services struct {
	Auth      service.AuthService
	Trainings service.TrainingService
	Import    service.ImportService
	Export    service.ExportService
}

func SetupRoutes(router *gin.Engine, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	trainingHandler := NewTrainingHandler(services.Trainings)
	transferHandler := NewTransferHandler(services.Import, services.Export)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	if services.Auth.Enabled() {
		protected.Use(AuthMiddleware(services.Auth.GetJWTSecret()))
	}
	{
		trainingGroup := protected.Group("/trainings")
		{
			trainingGroup.GET("", trainingHandler.ListTrainings)
			trainingGroup.POST("", trainingHandler.CreateTraining)
			trainingGroup.GET("/:id", trainingHandler.GetTraining)
			trainingGroup.PUT("/:id", trainingHandler.UpdateTraining)
			trainingGroup.DELETE("/:id", trainingHandler.DeleteTraining)

			// --- Exercises inside a training ---
			trainingGroup.POST("/:id/exercises", trainingHandler.AddExercise)
			trainingGroup.PUT("/:id/exercises/:exerciseId", trainingHandler.UpdateExercise)
			trainingGroup.DELETE("/:id/exercises/:exerciseId", trainingHandler.DeleteExercise)
			trainingGroup.DELETE("/:id/exercises/:exerciseId/images/:index", trainingHandler.RemoveExerciseImage)
		}

		protected.POST("/import", transferHandler.Import)
		protected.GET("/export", transferHandler.Export)
		protected.POST("/export/publish", transferHandler.Publish)
	}
}
