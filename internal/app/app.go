package app

import (
	"context"
	"fmt"
	"interrogator/internal/config"
	"interrogator/internal/controller"
	"interrogator/internal/repository"
	"interrogator/internal/service"
	"interrogator/pkg/configwatcher"
	"interrogator/pkg/database"
	"interrogator/pkg/logger"
	"interrogator/pkg/monitoring"
	"interrogator/pkg/security"
	"interrogator/pkg/tracing"
	"log"
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

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	cors            *security.CORSPolicy
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	questionType *repository.QuestionTypeRepository
	question     *repository.QuestionRepository
	answer       *repository.AnswerRepository
}

type services struct {
	registry     *service.AnswerableRegistry
	interrogator *service.Interrogator
	answers      *service.AnswerEngine
	search       *service.SearchService
}

type controllers struct {
	section  *controller.SectionController
	group    *controller.GroupController
	question *controller.QuestionController
	answer   *controller.AnswerController
	search   *controller.SearchController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		questionType: repository.NewQuestionTypeRepository(db, rdb, cfg.Redis.TTL),
		question:     repository.NewQuestionRepository(db),
		answer:       repository.NewAnswerRepository(db),
	}
}

// newRegistry registers a loader for every configured answerable type.
func newRegistry(cfg *config.Config) (*service.AnswerableRegistry, error) {
	registry := service.NewAnswerableRegistry()
	for key, ic := range cfg.Interrogatable {
		loader, ok := service.BuiltinAnswerables[ic.Type]
		if !ok {
			return nil, fmt.Errorf("interrogatable %q: no host entity for type %q", key, ic.Type)
		}
		registry.Register(ic.Type, loader)
	}
	return registry, nil
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) (*services, error) {
	registry, err := newRegistry(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{registry: registry}
	s.interrogator = service.NewInterrogator(db, repos.questionType)
	s.answers = service.NewAnswerEngine(db, registry)
	s.search = service.NewSearchService(repos.answer, repos.question, repos.questionType)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		section:  controller.NewSectionController(s.interrogator),
		group:    controller.NewGroupController(s.interrogator),
		question: controller.NewQuestionController(s.interrogator),
		answer:   controller.NewAnswerController(s.answers),
		search:   controller.NewSearchController(s.search),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(a.cors.CORS())
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New wires the application around an open database. rdb may be nil.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		cors:   security.NewCORSPolicy(cfg.CORS.AllowedOrigins),
	}

	repos := app.initRepositories(db, rdb, cfg)
	services, err := app.initServices(repos, cfg, db)
	if err != nil {
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(func(c *config.Config) {
		app.cors.Update(c.CORS.AllowedOrigins)
		logger.SetMode(c.Server.Mode)
	})

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app, err := New(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("interrogator", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.File == "" {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, a.Config.File, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	a.watchConfig(watchCtx)

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// wait for an interrupt, then give in-flight requests 5 seconds
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
