package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia/config"
	"trivia/handlers"
	"trivia/middleware"
	"trivia/routes"
	"trivia/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.SeedCategories {
		if err := config.SeedCategories(db, logger); err != nil {
			log.Fatalf("Failed to seed categories: %v", err)
		}
	}

	// Question events go through redis when it is configured so that every
	// instance sees every change.
	hub := services.NewHub(logger)
	go hub.Run(ctx)

	var publisher services.Publisher = services.NewLocalPublisher(hub)
	if cfg.RedisEnabled() {
		redisClient := config.InitRedis(cfg)
		defer redisClient.Close()
		publisher = services.NewRedisPublisher(redisClient, cfg.RedisChannel)
		go func() {
			if err := services.RelayEvents(ctx, redisClient, cfg.RedisChannel, hub, logger, nil); err != nil {
				log.Errorf("Question event relay stopped: %v", err)
			}
		}()
	}

	// Initialize services
	categoryService := services.NewCategoryService(db, logger)
	questionService := services.NewQuestionService(db, logger)
	quizService := services.NewQuizService(db, logger)
	authService := services.NewAuthService(cfg.JWTSecret, cfg.AdminPasswordHash)
	if authService.Enabled() {
		log.Info("Admin auth enabled for question writes")
	}

	// Initialize handlers
	categoryHandler := handlers.NewCategoryHandler(categoryService, questionService, logger)
	questionHandler := handlers.NewQuestionHandler(questionService, categoryService, publisher, logger)
	quizHandler := handlers.NewQuizHandler(quizService, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)
	eventsHandler := handlers.NewEventsHandler(hub, logger)

	// Setup Gin router
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Recovery(logger))

	healthCheck := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	routes.SetupRoutes(router, categoryHandler, questionHandler, quizHandler, authHandler, eventsHandler, authService, healthCheck)

	// Start server
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}
	go func() {
		log.Infof("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
