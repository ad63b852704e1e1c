// File: podgoro/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"podgoro/config"
	"podgoro/cron"
	"podgoro/database"
	reservationRepoPkg "podgoro/database/repository/reservation"
	"podgoro/handlers"
	"podgoro/middleware"
	"podgoro/routes"
	"podgoro/services/availability"
	"podgoro/services/chat"
	"podgoro/services/knowledge"
	"podgoro/services/notification"
	"podgoro/services/reservation"
	"podgoro/services/tasks"
	"podgoro/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	resRepo := reservationRepoPkg.NewMongoReservationRepo()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := resRepo.EnsureIndexes(ctx); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure reservation indexes: %v", err)
		}
		cancel()
	}

	// knowledge corpus.
	store, err := knowledge.NewStoreFromFile(config.AppConfig.KnowledgePath)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to load knowledge corpus: %v", err)
	}
	retriever := knowledge.NewRetriever(store)

	utils.StartHealthMonitor([]*redis.Client{utils.GetSessionCacheClient()}, database.MongoClient, store.Len())

	// services.
	checker := availability.NewChecker(resRepo)

	notificationService := notification.NewLogNotificationService()
	cron.InitNotifyWorker(notificationService)

	reservationService := &reservation.DefaultReservationService{
		Repo:     resRepo,
		Notifier: tasks.NewAsynqNotifier(),
	}

	oracle, err := chat.NewGeminiOracle(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize the language model client: %v", err)
	}

	sessionStore := chat.NewRedisSessionStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLHours)*time.Hour,
	)

	routerService := chat.NewDefaultRouter(
		sessionStore,
		oracle,
		retriever,
		checker,
		reservationService,
		time.Duration(config.AppConfig.OracleTimeoutMS)*time.Millisecond,
	)

	chatHandler := handlers.NewChatHandler(routerService)
	adminHandler := handlers.NewAdminHandler(reservationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ChatHandler:       chatHandler.HandleChat,
		AdminLoginHandler: adminHandler.LoginHandler,
		AdminHandler:      adminHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
