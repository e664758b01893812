package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"nayidisha/internal/config"
	"nayidisha/internal/database"
	"nayidisha/internal/extraction"
	"nayidisha/internal/gemini"
	"nayidisha/internal/handlers"
	"nayidisha/internal/insights"
	"nayidisha/internal/logger"
	"nayidisha/internal/middleware"
	"nayidisha/internal/services"
	"nayidisha/internal/validator"
	"nayidisha/internal/voice"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "nayidisha/internal/docs" // Import swagger docs
)

// @title           Nayidisha API
// @version         1.0
// @description     Nayidisha is a personal finance application with transaction tracking, savings goals, AI-generated insights, and a voice assistant.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Text generation is optional; without an API key the insight and
	// extraction paths fall back to local handling.
	var generator gemini.TextGenerator
	if appConfig.GeminiAPIKey != "" {
		client, err := gemini.NewClient(context.Background(), appConfig.GeminiAPIKey, appConfig.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to create text generation client: %w", err)
		}
		generator = client
	} else {
		log.Warn("GEMINI_API_KEY not set; insights will use the local fallback")
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	goalService := services.NewGoalService(db)
	auditService := services.NewAuditService(db)
	insightService := insights.NewService(db, generator)
	defer insightService.Flush()
	extractionService := extraction.NewService(generator)

	// Voice assistant is optional; without credentials the endpoints
	// return 503.
	var voiceManager *voice.Manager
	if appConfig.VoiceConfigured() {
		voiceManager = voice.NewManager(appConfig.VoiceBaseURL, appConfig.VoicePublicKey, appConfig.VoiceAssistantID)
		defer voiceManager.Shutdown()
	} else {
		log.Warn("voice provider credentials not set; voice endpoints disabled")
	}

	// Initialize handlers
	deps := routerDeps{
		webhookSecret: appConfig.VoiceWebhookSecret,
		auth:          handlers.NewAuthHandler(userService, auditService),
		transactions:  handlers.NewTransactionHandler(transactionService, auditService),
		goals:         handlers.NewGoalHandler(goalService, auditService),
		categories:    handlers.NewCategoryHandler(),
		dashboard:     handlers.NewDashboardHandler(transactionService, goalService, insightService),
		insights:      handlers.NewInsightHandler(transactionService, goalService, insightService),
		voice:         handlers.NewVoiceHandler(voiceManager, userService, transactionService, goalService),
		webhook:       handlers.NewWebhookHandler(extractionService, transactionService, auditService),
	}
	router := newRouter(deps)

	log.Infof("Starting Nayidisha backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// routerDeps carries everything newRouter needs to assemble the HTTP surface.
type routerDeps struct {
	webhookSecret string
	auth          *handlers.AuthHandler
	transactions  *handlers.TransactionHandler
	goals         *handlers.GoalHandler
	categories    *handlers.CategoryHandler
	dashboard     *handlers.DashboardHandler
	insights      *handlers.InsightHandler
	voice         *handlers.VoiceHandler
	webhook       *handlers.WebhookHandler
}

// newRouter builds the full Gin engine, including the custom binding
// validators the request types depend on.
func newRouter(deps routerDeps) *gin.Engine {
	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", deps.auth.Register)
	auth.POST("/login", deps.auth.Login)

	// Voice provider webhook
	webhooks := v1.Group("/webhooks")
	webhooks.Use(middleware.WebhookSecretMiddleware(deps.webhookSecret))
	webhooks.POST("/voice", deps.webhook.HandleVoiceTranscript)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", deps.auth.GetProfile)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", deps.transactions.CreateTransaction)
	transactions.GET("", deps.transactions.ListTransactions)
	transactions.DELETE("/:id", deps.transactions.DeleteTransaction)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", deps.goals.CreateGoal)
	goals.GET("", deps.goals.ListGoals)
	goals.PUT("/:id/progress", deps.goals.UpdateGoalProgress)
	goals.DELETE("/:id", deps.goals.DeleteGoal)

	// Category, dashboard, and insight routes
	protected.GET("/categories", deps.categories.ListCategories)
	protected.GET("/dashboard", deps.dashboard.GetDashboard)
	protected.GET("/insights", deps.insights.GetInsights)

	// Voice session routes
	voiceGroup := protected.Group("/voice")
	voiceGroup.GET("/session", deps.voice.GetSession)
	voiceGroup.POST("/session", deps.voice.StartSession)
	voiceGroup.DELETE("/session", deps.voice.StopSession)
	voiceGroup.POST("/session/mute", deps.voice.SetMuted)

	return router
}
