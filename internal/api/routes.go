package api

import (
	"alcyxob/gymtracker/internal/metrics"
	"alcyxob/gymtracker/internal/repository"
	"alcyxob/gymtracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth     service.AuthService
	Exercise service.ExerciseService
	Template service.TemplateService
	Workout  service.WorkoutService
	Health   repository.HealthChecker
}

func SetupRoutes(
	router *gin.Engine,
	logger zerolog.Logger,
	corsOrigins []string,
	services Services,
) {
	authHandler := NewAuthHandler(services.Auth)
	exerciseHandler := NewExerciseHandler(services.Exercise)
	templateHandler := NewTemplateHandler(services.Template)
	workoutHandler := NewWorkoutHandler(services.Workout)
	healthHandler := NewHealthHandler(services.Health)

	router.Use(RequestLogger(logger), metrics.Middleware(), CORS(corsOrigins))

	router.GET("/", healthHandler.Banner)
	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)

	protected := router.Group("")
	protected.Use(AuthMiddleware(services.Auth))
	{
		templateGroup := protected.Group("/templates")
		{
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.POST("", templateHandler.CreateTemplate)
			templateGroup.GET("/:id", templateHandler.GetTemplate)
			templateGroup.PUT("/:id", templateHandler.UpdateTemplate)
			templateGroup.DELETE("/:id", templateHandler.DeleteTemplate)
		}

		exerciseGroup := protected.Group("/exercise-definitions")
		{
			exerciseGroup.GET("", exerciseHandler.ListDefinitions)
			exerciseGroup.POST("", exerciseHandler.CreateDefinition)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			// Static segments take precedence over /:id.
			workoutGroup.GET("/last-exercise/:exerciseDefId", workoutHandler.LastPerformance)
			workoutGroup.POST("/export", workoutHandler.ExportWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}
	}
}
