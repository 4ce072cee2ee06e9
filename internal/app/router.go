package app

import (
	"engolo_backend/internal/middleware"
	"engolo_backend/internal/model"
	"engolo_backend/pkg/monitoring"
	"engolo_backend/pkg/security"
	"engolo_backend/pkg/tracing"
	"time"

	_ "engolo_backend/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(security.CORS(a.Cfg.CORS.AllowedOrigins))
	r.Use(security.Secure())
	r.Use(monitoring.MetricsMiddleware())

	if a.Cfg.Tracing.Enabled {
		r.Use(tracing.GinMiddleware())
	}

	if a.Cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(a.Cfg.RateLimit.WindowMinutes) * time.Minute
		if window <= 0 {
			window = time.Minute
		}
		r.Use(security.RateLimiter(a.Cfg.RateLimit.MaxRequests, window))
	}

	r.GET("/health", a.controllers.Health.Check)
	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// Public surface: registration, login and guest-readable content.
	auth := api.Group("/auth")
	{
		auth.POST("/register", a.controllers.Auth.Register)
		auth.POST("/login", a.controllers.Auth.Login)
	}

	public := api.Group("")
	public.Use(middleware.TryAuthMiddleware(a.Cfg))
	{
		public.GET("/exercises", a.controllers.Exercises.List)
		public.GET("/exercises/:id", a.controllers.Exercises.Get)
		public.GET("/modules/:n", a.controllers.Exercises.Module)
		public.GET("/quiz-sets", a.controllers.QuizSets.List)
		public.GET("/quiz-sets/:id", a.controllers.QuizSets.Get)
		public.GET("/daily-quiz", a.controllers.QuizSets.Daily)
		public.GET("/users/leaderboard", a.controllers.Users.XPLeaderboard)
		public.GET("/quiz-statistics/leaderboard", a.controllers.Statistics.Leaderboard)
		public.GET("/dictionary/:lang/:word", a.controllers.Dictionary.Lookup)
		public.GET("/translate", a.controllers.Dictionary.Translate)
		public.GET("/chat/online", a.controllers.Chat.Online)
	}

	// Learner surface: everything the progression engine and quiz sessions
	// write goes through here.
	learner := api.Group("")
	learner.Use(middleware.AuthMiddleware(a.Cfg))
	learner.Use(middleware.ActivityMiddleware(a.repos.Users))
	{
		learner.GET("/users/me", a.controllers.Users.Profile)
		learner.PUT("/users/me", a.controllers.Users.UpdateProfile)

		learner.GET("/progress", a.controllers.Progress.List)
		learner.POST("/progress", a.controllers.Progress.Record)
		learner.GET("/progress/count", a.controllers.Progress.Count)

		learner.GET("/exercise-statistics", a.controllers.Statistics.ListExercise)
		learner.POST("/exercise-statistics", a.controllers.Statistics.RecordExercise)
		learner.GET("/quiz-statistics", a.controllers.Statistics.ListQuiz)
		learner.POST("/quiz-statistics", a.controllers.Statistics.RecordQuiz)

		learner.GET("/chat/ws", a.controllers.Chat.Connect)
		learner.GET("/chat/history", a.controllers.Chat.History)
	}

	// Authoring surface.
	teacher := api.Group("")
	teacher.Use(middleware.AuthMiddleware(a.Cfg))
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/exercises", a.controllers.Exercises.Create)
		teacher.PUT("/exercises/:id", a.controllers.Exercises.Update)
		teacher.DELETE("/exercises/:id", a.controllers.Exercises.Delete)
		teacher.POST("/exercises/:id/audio", a.controllers.Exercises.UploadAudio)

		teacher.POST("/quiz-sets", a.controllers.QuizSets.Create)
		teacher.PUT("/quiz-sets/:id", a.controllers.QuizSets.Update)
		teacher.DELETE("/quiz-sets/:id", a.controllers.QuizSets.Delete)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(a.Cfg))
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", a.controllers.Users.List)
		admin.PUT("/users/:id/disabled", a.controllers.Users.SetDisabled)
	}

	return r
}
