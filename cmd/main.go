package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/learnhub.net/internal/adapter/crypto"
	"gitlab.com/learnhub.net/internal/adapter/logging"
	"gitlab.com/learnhub.net/internal/adapter/postgres/reportrepository"
	"gitlab.com/learnhub.net/internal/adapter/pyinterp"
	"gitlab.com/learnhub.net/internal/adapter/redis/codestore"
	"gitlab.com/learnhub.net/internal/adapter/redis/gradestream"
	"gitlab.com/learnhub.net/internal/adapter/yamltemplate"
	"gitlab.com/learnhub.net/internal/config"
	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	codestoresvc "gitlab.com/learnhub.net/internal/core/services/codestore"
	"gitlab.com/learnhub.net/internal/core/services/grading"
	"gitlab.com/learnhub.net/internal/core/services/sandbox"
	logger2 "gitlab.com/learnhub.net/internal/global/logger"
	"gitlab.com/learnhub.net/internal/handlers"
	http2 "gitlab.com/learnhub.net/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()

	var logger primary.Logger = logger2.Logger
	if sysCfg.DebugMode {
		logger = logging.NewDebugZapLogger()
	}
	logger.Info("Starting code sandbox service", "name", sysCfg.HttpConfig.ServiceName)

	ctxBg := context.Background()

	// SECONDARY PORTS
	var reports secondary.ReportRepository
	db, err := setupDatabase(ctxBg, sysCfg.PostgresConfig)
	if err != nil {
		logger.Warn("Postgres unavailable, grade reports will not be stored", "error", err)
	} else {
		defer db.Close()
		reports = reportrepository.New(db, logger, sysCfg.PostgresConfig.Schema)
	}

	var publisher secondary.GradePublisher
	var codeRepo secondary.SavedCodeRepository
	redisClient, err := setupRedis(ctxBg, sysCfg.RedisConfig)
	if err != nil {
		logger.Warn("Redis unavailable, saved code and grade events are disabled", "error", err)
	} else {
		defer redisClient.Close()
		publisher = gradestream.NewPublisher(redisClient, sysCfg.RedisConfig.GradeStream, logger)
		codeRepo = codestore.NewCodeRepository(redisClient, sysCfg.RedisConfig.KeyPrefix, logger)
	}

	var templateRepo secondary.TemplateRepository
	templates, err := yamltemplate.Load(sysCfg.SandboxConfig.TemplateDir, logger)
	if err != nil {
		logger.Error("Failed to load code templates", "dir", sysCfg.SandboxConfig.TemplateDir, "error", err)
	} else {
		templateRepo = templates
	}

	loader := pyinterp.NewLoader(sysCfg.SandboxConfig, logger)

	//services
	sandboxSvc := sandbox.NewSandboxService(sysCfg.SandboxConfig, loader, logger)
	gradingSvc := grading.NewGradingService(sandboxSvc, templateRepo, reports, publisher, logger)
	var codeSvc codestoresvc.ICodeStoreService
	if codeRepo != nil {
		codeSvc = codestoresvc.NewCodeStoreService(codeRepo, logger)
	}
	serviceProvider := http2.NewServiceProvider(sandboxSvc, gradingSvc, codeSvc)

	//primary ports
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)
	middleware := handlers.New(jwtProvider, sysCfg.JwtConfig.Enabled(), logger)
	if !sysCfg.JwtConfig.Enabled() {
		logger.Warn("JWT_SECRET not set, API is unauthenticated")
	}

	//server
	httpServer := http2.NewServer(sysCfg.HttpConfig.Port, sysCfg.HttpConfig.ServiceName, *serviceProvider, middleware, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}
	serverErr := httpServer.Start(ctxBg)

	select {
	case <-quit:
	case err := <-serverErr:
		logger.Error("HTTP server failed", "error", err)
	}
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	if err := httpServer.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	loader.Reset()

	logger.Info("successfully shutdown server")
}

// setupDatabase connects to PostgreSQL and ensures the report table exists.
func setupDatabase(ctx context.Context, cfg *config.PostgresConfig) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Url)
	if err != nil {
		return nil, err
	}
	if err := reportrepository.Migrate(ctx, db, cfg.Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// setupRedis creates the Redis client and checks it is reachable.
func setupRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// InitReader loads <env>.env when an environment name is passed as the
// first argument. Without one the process environment is used as is.
func InitReader() {
	if len(os.Args) < 2 {
		return
	}
	environment := os.Args[1]

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
