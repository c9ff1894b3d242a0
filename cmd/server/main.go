package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/job-coach-ai/internal/config"
	"github.com/fadilmartias/job-coach-ai/internal/domain/fiber/handler"
	"github.com/fadilmartias/job-coach-ai/internal/logger"
	"github.com/fadilmartias/job-coach-ai/internal/middleware"
	"github.com/fadilmartias/job-coach-ai/internal/repository"
	"github.com/fadilmartias/job-coach-ai/internal/service"
	"github.com/fadilmartias/job-coach-ai/internal/usecase"
	"github.com/fadilmartias/job-coach-ai/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	if err := logger.Init(appConfig.LogLevel, appConfig.IsProduction()); err != nil {
		log.Fatalf("Could not init logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}
			if code >= fiber.StatusInternalServerError {
				zlog.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}

			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    code,
				Message: message,
			})
		},
	})
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !appConfig.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(appConfig.RateLimitMax, 1*time.Minute))

	sessionConfig := config.LoadSessionConfig()
	sessions := repository.NewSessionRepository(sessionConfig.TTL)
	app.Use(middleware.Session(sessions, sessionConfig.CookieName, sessionConfig.TTL, appConfig.IsProduction(), zlog))

	store, err := newVectorStore(ctx, zlog)
	if err != nil {
		zlog.Fatal("Could not prepare vector store", zap.Error(err))
	}

	aiConfig := config.LoadAIConfig()
	providers := service.NewProviderFactory(
		aiConfig,
		config.LoadOpenAIConfig(),
		config.LoadGeminiConfig(),
		config.LoadOpenRouterConfig(),
		zlog,
	)
	zlog.Info("AI provider selected",
		zap.String("provider", providers.ProviderName()),
		zap.String("embedding_provider", aiConfig.ResolvedEmbeddingProvider()),
	)

	dataset := repository.NewDatasetRepository(config.LoadDatasetConfig().Path, zlog)
	uc := usecase.NewCoachUsecase(dataset, store, providers, zlog)

	handler.NewAPIHandler(uc, providers.ProviderName(), zlog).RegisterRoutes(app)
	handler.NewCoachHandler(uc, appConfig.Name, providers.ProviderName(), zlog).RegisterRoutes(app)

	// Warm the table so a broken file shows up in the startup log
	if _, err := uc.Dataset(ctx); err != nil {
		zlog.Warn("Dataset not loaded", zap.String("path", dataset.Path()), zap.Error(err))
	}

	// Monitor goroutine and session count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				zlog.Debug("Runtime stats",
					zap.Int("goroutines", runtime.NumGoroutine()),
					zap.Int("sessions", sessions.Count()),
				)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		zlog.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("Shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("Server running", zap.String("port", appConfig.Port))
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("Server stopped", zap.Error(err))
	}
}

func newVectorStore(ctx context.Context, zlog *zap.Logger) (repository.VectorStore, error) {
	dbConfig := config.LoadDBConfig()
	if dbConfig.VectorStore != config.VectorStorePostgres {
		zlog.Info("Using in-memory vector store")
		return repository.NewInMemoryVectorStore(), nil
	}

	db, err := ConnectDB()
	if err != nil {
		return nil, err
	}
	corpus := repository.NewCorpusRepository(db)
	if err := corpus.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	zlog.Info("Using postgres vector store", zap.String("host", dbConfig.Host), zap.String("database", dbConfig.Name))
	return corpus, nil
}

func ConnectDB() (*gorm.DB, error) {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	gormConfig := &gorm.Config{}
	if appConfig.IsProduction() {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}
	// the store holds at most a hundred rows
	pgDB.SetMaxIdleConns(2)
	pgDB.SetMaxOpenConns(10)
	pgDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
