// File: villagestay/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"villagestay/config"
	"villagestay/cron"
	"villagestay/database"
	bookingRepoPkg "villagestay/database/repository/booking"
	listingRepoPkg "villagestay/database/repository/listing"
	userRepoPkg "villagestay/database/repository/user"
	"villagestay/handlers"
	"villagestay/messaging"
	"villagestay/routes"
	"villagestay/services/account"
	"villagestay/services/booking"
	"villagestay/services/conversation"
	"villagestay/services/intelligence"
	"villagestay/services/inventory"
	"villagestay/services/session"
	"villagestay/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()

	clock := utils.RealClock{}
	sessionTTL := time.Duration(config.AppConfig.SessionTTLHours) * time.Hour

	// Session store: in-process by default, Redis when configured.
	var sessionStore session.Store
	switch config.AppConfig.SessionBackend {
	case "redis":
		utils.InitSessionCache()
		sessionStore = session.NewRedisStore(utils.GetSessionCacheClient(), sessionTTL, clock)
	default:
		sessionStore = session.NewMemoryStore(clock)
	}

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	listingRepo := listingRepoPkg.NewMongoListingRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// services.
	accountService := &account.DefaultAccountService{
		Repo:     userRepo,
		Bookings: bookingRepo,
	}
	inventoryService := &inventory.DefaultInventoryService{
		Listings: listingRepo,
		Users:    userRepo,
	}
	bookingEngine := &booking.DefaultBookingEngine{
		Repo:  bookingRepo,
		Clock: clock,
	}
	advisor := &intelligence.DefaultAdvisor{
		Model: intelligence.NewGeminiClient(config.AppConfig.GeminiAPIKey),
	}

	messenger, err := messaging.NewTwilioMessenger(&config.AppConfig)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize messenger: %v", err)
	}

	engine, err := conversation.NewEngine(
		sessionStore,
		accountService,
		inventoryService,
		bookingEngine,
		advisor,
		messenger,
		clock,
		&config.AppConfig,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to build conversation engine: %v", err)
	}

	// Scheduled maintenance: daily reminders and hourly session cleanup.
	hooks := &cron.Hooks{
		Sessions:   sessionStore,
		Engine:     bookingEngine,
		Messenger:  messenger,
		Clock:      clock,
		SessionTTL: sessionTTL,
	}
	scheduler, worker := cron.InitScheduler(hooks)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	webhookHandler := handlers.NewWebhookHandler(engine, config.AppConfig.TwilioWhatsAppFrom)
	routes.RegisterRoutes(router, webhookHandler)

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

	scheduler.Shutdown()
	worker.Shutdown()
	database.CloseDB()

	logger.Sugar().Info("main: server stopped gracefully")
}
