package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"listing-market/internal/auth"
	"listing-market/internal/config"
	"listing-market/internal/database"
	"listing-market/internal/handlers"
	"listing-market/internal/jobs"
	"listing-market/internal/logger"
	"listing-market/internal/mapbox"
	"listing-market/internal/repository"
	"listing-market/internal/services"
	"listing-market/internal/storage"
)

func main() {
	logger.Init("listing-market")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		logger.Log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		logger.Log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Initialize photo storage
	photoStorage, err := storage.NewMinIOClient(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize photo storage: %v", err)
	}

	// Initialize repository and services
	repo := repository.NewRepository(db)
	userService := services.NewUserService(db)
	emailService := services.NewEmailService(cfg)
	listingService := services.NewListingService(repo, emailService)
	wizardService := services.NewWizardService(repo, listingService)
	searchService := services.NewSearchService(db)
	billingService := services.NewBillingService(db, listingService, cfg)
	moderationService := services.NewModerationService(db)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	listingHandler := handlers.NewListingHandler(listingService)
	wizardHandler := handlers.NewWizardHandler(wizardService)
	searchHandler := handlers.NewSearchHandler(searchService)
	billingHandler := handlers.NewBillingHandler(billingService, cfg)
	photoHandler := handlers.NewPhotoHandler(photoStorage)
	geocodeHandler := handlers.NewGeocodeHandler(mapbox.NewClient(cfg.Mapbox.Token))
	adminHandler := handlers.NewAdminHandler(moderationService, userService)

	// Start draft reaper job (abandoned drafts older than 30 days)
	reaperJob := jobs.NewDraftReaperJob(db, 30*24*time.Hour)
	reaperJob.Start(12 * time.Hour)
	logger.Log.Info("Draft reaper job started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		cfg.App.FrontendURL,
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	router.GET("/api/search", searchHandler.SearchListings)
	router.GET("/api/listings/featured", searchHandler.GetFeaturedListings)
	router.GET("/api/listings/:id", listingHandler.GetListing)

	// Payment processor webhook (signed, unauthenticated)
	router.POST("/api/billing/webhook", billingHandler.Webhook)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.Middleware(userService))
	{
		api.GET("/me", userHandler.GetMe)

		// Seller dashboard
		api.GET("/sell/listings", listingHandler.GetMyListings)
		api.POST("/listings/:id/submit", listingHandler.SubmitListing)
		api.POST("/listings/:id/status", adminHandler.SetListingStatus)

		// Listing creation wizard
		sell := api.Group("/sell/draft")
		{
			sell.GET("", wizardHandler.GetDraft)
			sell.PUT("", wizardHandler.UpdateDraft)
			sell.POST("/advance", wizardHandler.Advance)
			sell.POST("/back", wizardHandler.Back)
			sell.POST("/payment-return", wizardHandler.PaymentReturn)
			sell.POST("/submit", wizardHandler.Submit)
		}

		// Billing
		api.POST("/billing/listing-checkout", billingHandler.CreateListingCheckout)

		// Photos
		api.POST("/photos", photoHandler.UploadPhoto)
		api.GET("/photos/url", photoHandler.GetPhotoURL)

		// Geocoding for the address step
		api.GET("/geocode", geocodeHandler.Geocode)
	}

	// Moderation routes (protected + moderator only)
	admin := router.Group("/api/admin")
	admin.Use(auth.Middleware(userService))
	admin.Use(adminHandler.ModeratorMiddleware())
	{
		admin.GET("/listings", adminHandler.GetReviewQueue)
		admin.POST("/listings/:id/moderate", adminHandler.ModerateListing)
		admin.GET("/stats", adminHandler.GetPlatformStats)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Infof("Server starting on port %s", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited")
}
