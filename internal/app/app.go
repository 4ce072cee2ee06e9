package app

import (
	"context"
	"engolo_backend/internal/config"
	"engolo_backend/internal/controller"
	"engolo_backend/internal/repository"
	"engolo_backend/internal/service"
	"engolo_backend/pkg/database"
	"engolo_backend/pkg/logger"
	"engolo_backend/pkg/monitoring"
	"engolo_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Repositories struct {
	Users      *repository.UserRepository
	Exercises  *repository.ExerciseRepository
	QuizSets   *repository.QuizSetRepository
	Progress   *repository.ProgressRepository
	Statistics *repository.StatisticsRepository
	Chats      *repository.ChatRepository
}

type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Exercises  *service.ExerciseService
	QuizSets   *service.QuizSetService
	Progress   *service.ProgressService
	Statistics *service.StatisticsService
	Dictionary *service.DictionaryService
	Storage    *service.StorageService
	Chat       *service.ChatService
	Hub        *service.ChatHub
}

type Controllers struct {
	Auth       *controller.AuthController
	Users      *controller.UserController
	Exercises  *controller.ExerciseController
	QuizSets   *controller.QuizSetController
	Progress   *controller.ProgressController
	Statistics *controller.StatisticsController
	Dictionary *controller.DictionaryController
	Chat       *controller.ChatController
	Health     *controller.HealthController
}

type App struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine

	repos       Repositories
	services    Services
	controllers Controllers

	tracer  *sdktrace.TracerProvider
	stopHub context.CancelFunc
}

func NewApp(cfg *config.Config) (*App, error) {
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	monitoring.Init()

	a := &App{Cfg: cfg, DB: db, Redis: rdb}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("engolo-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Warn("tracing init failed, continuing without it", zap.Error(err))
		} else {
			a.tracer = tp
		}
	}

	a.repos = Repositories{
		Users:      repository.NewUserRepository(db),
		Exercises:  repository.NewExerciseRepository(db),
		QuizSets:   repository.NewQuizSetRepository(db),
		Progress:   repository.NewProgressRepository(db),
		Statistics: repository.NewStatisticsRepository(db),
		Chats:      repository.NewChatRepository(db, rdb),
	}

	storage, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, err
	}

	hub := service.NewChatHub(a.repos.Chats)
	hubCtx, stopHub := context.WithCancel(context.Background())
	a.stopHub = stopHub
	go hub.Run(hubCtx)

	dictionary := service.NewDictionaryService(cfg.Dictionary)

	a.services = Services{
		Auth:       service.NewAuthService(a.repos.Users, cfg),
		Users:      service.NewUserService(a.repos.Users),
		Exercises:  service.NewExerciseService(a.repos.Exercises, dictionary),
		QuizSets:   service.NewQuizSetService(a.repos.QuizSets, rdb),
		Progress:   service.NewProgressService(a.repos.Progress, a.repos.Users),
		Statistics: service.NewStatisticsService(a.repos.Statistics, a.repos.Users),
		Dictionary: dictionary,
		Storage:    storage,
		Hub:        hub,
	}
	a.services.Chat = service.NewChatService(a.repos.Chats, hub)

	a.controllers = Controllers{
		Auth:       controller.NewAuthController(a.services.Auth),
		Users:      controller.NewUserController(a.services.Users),
		Exercises:  controller.NewExerciseController(a.services.Exercises, a.services.Storage),
		QuizSets:   controller.NewQuizSetController(a.services.QuizSets),
		Progress:   controller.NewProgressController(a.services.Progress),
		Statistics: controller.NewStatisticsController(a.services.Statistics),
		Dictionary: controller.NewDictionaryController(a.services.Dictionary),
		Chat:       controller.NewChatController(a.services.Chat, cfg.CORS.AllowedOrigins),
		Health:     controller.NewHealthController(db, rdb),
	}

	a.Router = a.setupRouter()
	return a, nil
}

// Run serves until SIGINT/SIGTERM, then drains in-flight requests.
func (a *App) Run() error {
	srv := &http.Server{
		Addr:         ":" + a.Cfg.Server.Port,
		Handler:      a.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("port", a.Cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.stopHub()
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Log.Info("server stopped")
	return nil
}
