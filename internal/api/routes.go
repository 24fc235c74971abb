package api

import (
	"net/http"

	"alcyxob/fitness-routines/internal/metrics"
	"alcyxob/fitness-routines/internal/service"

	"github.com/gin-gonic/gin"
)

// Services are the handlers' dependencies.
type Services struct {
	Auth       service.AuthService
	Routines   service.RoutineService
	Exercises  service.ExerciseService
	Progress   service.ProgressService
	Generation service.GenerationService
}

// RouterOptions tune the cross-cutting middleware. Zero values disable the
// optional parts.
type RouterOptions struct {
	CookieSecure   bool
	Metrics        *metrics.Manager
	MetricsHandler http.Handler       // served on /metrics
	RateLimiter    RequestRateLimiter // guards /ai
	AIPerMinute    int
}

func SetupRoutes(router *gin.Engine, services Services, opts RouterOptions) {
	authHandler := NewAuthHandler(services.Auth, opts.CookieSecure)
	routineHandler := NewRoutineHandler(services.Routines)
	exerciseHandler := NewExerciseHandler(services.Exercises, opts.Metrics)
	progressHandler := NewProgressHandler(services.Progress)
	aiHandler := NewAIHandler(services.Generation)

	router.Use(PanicRecovery(opts.Metrics), RequestLogger())
	if opts.Metrics != nil {
		router.Use(RequestMetrics(opts.Metrics))
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if opts.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(services.Auth))
	{
		protected.GET("/me", authHandler.Me)

		// --- Routine Routes ---
		routineGroup := protected.Group("/routines")
		{
			routineGroup.GET("", routineHandler.ListRoutines)
			routineGroup.POST("", routineHandler.CreateRoutine)
			routineGroup.GET("/:routineId", routineHandler.GetRoutine)
			routineGroup.PATCH("/:routineId", routineHandler.RenameRoutine)
			routineGroup.DELETE("/:routineId", routineHandler.DeleteRoutine)
			routineGroup.GET("/:routineId/progress", routineHandler.GetProgress)
			routineGroup.POST("/:routineId/reset", routineHandler.ResetRoutine)
			routineGroup.POST("/:routineId/days", routineHandler.AddDay)
		}

		// --- Day Routes ---
		dayGroup := protected.Group("/days")
		{
			dayGroup.PATCH("/:dayId", routineHandler.UpdateDay)
			dayGroup.DELETE("/:dayId", routineHandler.DeleteDay)
			dayGroup.POST("/:dayId/reset", routineHandler.ResetDay)
			dayGroup.POST("/:dayId/exercises", routineHandler.AddExercise)
		}

		// --- Exercise Routes ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.PATCH("/:exerciseId", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/toggle", exerciseHandler.ToggleCompleted)
			exerciseGroup.PUT("/:exerciseId/videos", exerciseHandler.SetVideos)
			exerciseGroup.POST("/:exerciseId/videos", exerciseHandler.AddVideo)
			exerciseGroup.POST("/:exerciseId/videos/switch", exerciseHandler.SwitchVideo)
			exerciseGroup.POST("/:exerciseId/videos/search", exerciseHandler.SearchVideos)
			exerciseGroup.POST("/:exerciseId/videos/upload-url", exerciseHandler.RequestUploadURL)
			exerciseGroup.POST("/:exerciseId/videos/confirm-upload", exerciseHandler.ConfirmUpload)
		}

		videoGroup := protected.Group("/videos")
		{
			videoGroup.PATCH("/:videoId", exerciseHandler.UpdateVideo)
			videoGroup.DELETE("/:videoId", exerciseHandler.DeleteVideo)
		}

		// --- Progress Log Routes ---
		progressGroup := protected.Group("/progress")
		{
			progressGroup.GET("", progressHandler.ListEntries)
			progressGroup.POST("", progressHandler.CreateEntry)
			progressGroup.DELETE("", progressHandler.ClearEntries)
			progressGroup.PATCH("/:entryId", progressHandler.UpdateEntry)
			progressGroup.DELETE("/:entryId", progressHandler.DeleteEntry)
		}

		// --- AI Routes ---
		aiGroup := protected.Group("/ai")
		if opts.RateLimiter != nil && opts.AIPerMinute > 0 {
			aiGroup.Use(RateLimit(opts.RateLimiter, "ai", opts.AIPerMinute, opts.Metrics))
		}
		{
			aiGroup.POST("/routines", aiHandler.GenerateRoutine)
			aiGroup.POST("/exercises/:exerciseId/alternatives", aiHandler.SuggestAlternatives)
			aiGroup.POST("/chat", aiHandler.Chat)
		}
	}
}
