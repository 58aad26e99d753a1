package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/andreypavlenko/matchcore/docs" // swagger docs

	"github.com/andreypavlenko/matchcore/internal/config"
	"github.com/andreypavlenko/matchcore/internal/platform/auth"
	httpPlatform "github.com/andreypavlenko/matchcore/internal/platform/http"
	"github.com/andreypavlenko/matchcore/internal/platform/llm"
	"github.com/andreypavlenko/matchcore/internal/platform/logger"
	"github.com/andreypavlenko/matchcore/internal/platform/postgres"
	"github.com/andreypavlenko/matchcore/internal/platform/redis"
	"github.com/andreypavlenko/matchcore/internal/platform/storage"

	authHandler "github.com/andreypavlenko/matchcore/modules/auth/handler"
	authRepo "github.com/andreypavlenko/matchcore/modules/auth/repository"
	authService "github.com/andreypavlenko/matchcore/modules/auth/service"
	userRepo "github.com/andreypavlenko/matchcore/modules/users/repository"

	companyHandler "github.com/andreypavlenko/matchcore/modules/companies/handler"
	companyRepo "github.com/andreypavlenko/matchcore/modules/companies/repository"
	companyService "github.com/andreypavlenko/matchcore/modules/companies/service"

	candidateHandler "github.com/andreypavlenko/matchcore/modules/candidates/handler"
	candidateRepo "github.com/andreypavlenko/matchcore/modules/candidates/repository"
	candidateService "github.com/andreypavlenko/matchcore/modules/candidates/service"

	cvFileRepo "github.com/andreypavlenko/matchcore/modules/cvfiles/repository"
	cvFileService "github.com/andreypavlenko/matchcore/modules/cvfiles/service"

	jobHandler "github.com/andreypavlenko/matchcore/modules/jobs/handler"
	jobRepo "github.com/andreypavlenko/matchcore/modules/jobs/repository"
	jobService "github.com/andreypavlenko/matchcore/modules/jobs/service"

	matrixRepo "github.com/andreypavlenko/matchcore/modules/matrices/repository"
	matrixService "github.com/andreypavlenko/matchcore/modules/matrices/service"

	matchRepo "github.com/andreypavlenko/matchcore/modules/matching/repository"
	matchService "github.com/andreypavlenko/matchcore/modules/matching/service"

	ingestionHandler "github.com/andreypavlenko/matchcore/modules/ingestion/handler"
	ingestionService "github.com/andreypavlenko/matchcore/modules/ingestion/service"

	bulkHandler "github.com/andreypavlenko/matchcore/modules/bulk/handler"
	bulkService "github.com/andreypavlenko/matchcore/modules/bulk/service"

	sentry "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Matchcore API
// @version 1.0
// @description Recruitment-matching platform API: CV ingestion, candidate/job matrix generation, and scored matching.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@matchcore.example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @x-extension-openapi {"example": "value on a json format"}

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting matchcore API server",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	// Initialize PostgreSQL
	pgClient, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()
	logger.Info("Connected to PostgreSQL")

	// Run database migrations (MANDATORY: must run before HTTP server starts)
	migrationsPath := "./migrations"
	if err := postgres.RunMigrations(ctx, cfg.Database, logger, migrationsPath); err != nil {
		logger.Fatal("Failed to run database migrations",
			zap.Error(err),
			zap.String("migrations_path", migrationsPath),
		)
	}

	// Initialize Redis
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Connected to Redis")

	// Initialize S3 client (optional - gracefully handle missing config)
	var s3Client *storage.S3Client
	if cfg.S3.Endpoint != "" && cfg.S3.Bucket != "" {
		s3Client, err = storage.NewS3Client(cfg.S3)
		if err != nil {
			logger.Warn("Failed to initialize S3 client, CV staging will stay local-only", zap.Error(err))
		} else {
			logger.Info("S3 client initialized", zap.String("bucket", cfg.S3.Bucket))
		}
	} else {
		logger.Info("S3 configuration not provided, CV staging will stay local-only")
	}

	// LLM client shared by ingestion, candidate/job matrix builders, and job posting extraction
	llmClient := llm.New(cfg.Llm, redisClient, logger)

	uploadDir := filepath.Join(os.TempDir(), "matchcore-cvs")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		logger.Fatal("Failed to create CV upload directory", zap.Error(err), zap.String("dir", uploadDir))
	}

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Sentry (optional - gracefully handle missing DSN)
	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Server.Env,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
		}); err != nil {
			logger.Warn("Failed to initialize Sentry, panics will only be logged locally", zap.Error(err))
			sentryEnabled = false
		} else {
			defer sentry.Flush(2 * time.Second)
			logger.Info("Sentry error tracking initialized")
		}
	} else {
		logger.Info("Sentry DSN not provided, panics will only be logged locally")
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if sentryEnabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: false}))
	}
	router.Use(httpPlatform.RequestIDMiddleware())
	router.Use(httpPlatform.LoggerMiddleware(logger))
	router.Use(httpPlatform.CORSMiddleware())

	// Swagger documentation (available in development)
	if cfg.Server.Env != "production" {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info("Swagger UI available at /swagger/index.html")
	}

	// Health check endpoint
	router.GET("/health", healthCheckHandler(ctx, pgClient, redisClient))

	// Ping endpoint
	router.GET("/ping", pingHandler)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Auth middleware
	authMiddleware := auth.AuthMiddleware(jwtManager)

	// Initialize repositories
	userRepository := userRepo.NewUserRepository(pgClient.Pool)
	tokenRepository := authRepo.NewRefreshTokenRepository(pgClient.Pool)
	companyRepository := companyRepo.NewCompanyRepository(pgClient.Pool)
	jobRepository := jobRepo.NewJobRepository(pgClient.Pool)
	candidateRepository := candidateRepo.NewCandidateRepository(pgClient.Pool)
	cvFileRepository := cvFileRepo.NewCvFileRepository(pgClient.Pool)
	candidateMatrixRepository := matrixRepo.NewCandidateMatrixRepository(pgClient.Pool)
	jobMatrixRepository := matrixRepo.NewJobMatrixRepository(pgClient.Pool)
	matchRepository := matchRepo.NewMatchRepository(pgClient.Pool)

	// Initialize C4/C5 matrix builders (shared by ingestion, jobs, candidates, bulk)
	candidateMatrixBuilder := matrixService.NewCandidateMatrixBuilder(candidateMatrixRepository, llmClient, logger)
	jobMatrixBuilder := matrixService.NewJobMatrixBuilder(jobMatrixRepository, llmClient, logger)

	// Initialize C7/C8 matching + fan-out
	matchSvc := matchService.NewMatchService(matchRepository)
	fanOut := matchService.NewFanOut(
		matchSvc,
		candidateRepository,
		jobRepository,
		candidateMatrixRepository,
		jobMatrixRepository,
		cfg.Match.FanoutConcurrency,
		logger,
	)

	// Initialize services
	authSvc := authService.NewAuthService(
		userRepository,
		tokenRepository,
		jwtManager,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)
	companySvc := companyService.NewCompanyService(companyRepository)
	jobSvc := jobService.NewJobService(jobRepository, llmClient, jobMatrixBuilder, fanOut, logger)
	candidateSvc := candidateService.NewCandidateService(candidateRepository)
	cvFileSvc := cvFileService.NewCvFileService(cvFileRepository)

	// Initialize C6 ingestion pipeline
	ingestor := ingestionService.NewIngestor(
		candidateRepository,
		cvFileRepository,
		llmClient,
		candidateMatrixBuilder,
		fanOut,
		logger,
		uploadDir,
		cfg.Match.UploadConcurrency,
		s3Client,
	)

	// Initialize C9 bulk orchestrator
	orchestrator := bulkService.NewOrchestrator(
		candidateRepository,
		cvFileRepository,
		candidateMatrixBuilder,
		fanOut,
		logger,
		cfg.Match.BulkMatrixWorkers,
		cfg.Match.BulkMatchingWorkers,
		cfg.Match.BulkRetention,
	)

	// Initialize handlers
	authHdl := authHandler.NewAuthHandler(authSvc)
	companyHdl := companyHandler.NewCompanyHandler(companySvc)
	jobHdl := jobHandler.NewJobHandler(jobSvc, uploadDir, jobMatrixRepository, jobMatrixBuilder)
	candidateHdl := candidateHandler.NewCandidateHandler(candidateSvc, cvFileRepository, candidateMatrixBuilder, fanOut)
	ingestionHdl := ingestionHandler.NewIngestionHandler(ingestor)
	bulkHdl := bulkHandler.NewBulkHandler(orchestrator)
	_ = cvFileSvc // CV file records are read through ingestion/candidates/bulk; no dedicated endpoint per the external interface table

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Register module routes
		authHdl.RegisterRoutes(v1)
		companyHdl.RegisterRoutes(v1, authMiddleware)
		jobHdl.RegisterRoutes(v1, authMiddleware)
		candidateHdl.RegisterRoutes(v1, authMiddleware)
		ingestionHdl.RegisterRoutes(v1, authMiddleware)
		bulkHdl.RegisterRoutes(v1, authMiddleware)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// healthCheckHandler godoc
// @Summary Health Check
// @Description Check the health status of the application and its dependencies
// @Tags system
// @Produce json
// @Success 200 {object} http.HealthResponse
// @Router /health [get]
func healthCheckHandler(ctx context.Context, pgClient *postgres.Client, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := make(map[string]string)

		// Check PostgreSQL
		if err := pgClient.Health(ctx); err != nil {
			services["postgres"] = "down"
		} else {
			services["postgres"] = "up"
		}

		// Check Redis
		if err := redisClient.Health(ctx); err != nil {
			services["redis"] = "down"
		} else {
			services["redis"] = "up"
		}

		httpPlatform.RespondWithHealth(c, services)
	}
}

// pingHandler godoc
// @Summary Ping
// @Description Simple ping endpoint to check if the API is responding
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
