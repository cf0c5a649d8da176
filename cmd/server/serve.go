package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/agrolink/farm-exchange/internal/config"
	"github.com/agrolink/farm-exchange/internal/database"
	"github.com/agrolink/farm-exchange/internal/handlers"
	"github.com/agrolink/farm-exchange/internal/middleware"
	"github.com/agrolink/farm-exchange/internal/repository"
	"github.com/agrolink/farm-exchange/internal/services"

	_ "github.com/agrolink/farm-exchange/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			log.Fatal(err)
		}
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	profileRepo := repository.NewProfileRepository(db)
	harvestRepo := repository.NewHarvestRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	profileService := services.NewProfileService(profileRepo)
	listingService := services.NewListingService(harvestRepo, profileRepo, transactionRepo, messageRepo, db, cfg.ReserveTimeout)
	transactionService := services.NewTransactionService(transactionRepo, harvestRepo, profileRepo, db, cfg.ReserveTimeout)
	messageService := services.NewMessageService(messageRepo, profileRepo, harvestRepo)
	tokenService := services.NewTokenService(tokenRepo, profileRepo, cfg.JWT.Secret)
	exportService := services.NewExportService(profileRepo, transactionRepo, cfg.ExportSigningKey)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, cfg.TestMode)

	profileHandler := handlers.NewProfileHandler(profileService, tokenService)
	harvestHandler := handlers.NewHarvestHandler(listingService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	messageHandler := handlers.NewMessageHandler(messageService)
	tokenHandler := handlers.NewTokenHandler(tokenService)
	exportHandler := handlers.NewExportHandler(exportService)
	publicHandler := handlers.NewPublicHandler(listingService)

	router := gin.Default()

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/docs", handlers.SwaggerUIWithBearerFix())

	api := router.Group("/api/v1")
	{
		api.GET("/stats", publicHandler.MarketStats)
		api.POST("/profiles", profileHandler.Create)
		api.POST("/export/verify", exportHandler.Verify)

		authenticated := api.Group("")
		authenticated.Use(authMiddleware.RequireAuth())
		{
			authenticated.GET("/profiles", profileHandler.ListByRole)
			authenticated.GET("/profiles/me", profileHandler.Me)
			authenticated.PUT("/profiles/me", profileHandler.UpdateContact)

			authenticated.GET("/harvests", harvestHandler.Browse)
			authenticated.POST("/harvests", harvestHandler.CreateListing)
			authenticated.GET("/harvests/mine", harvestHandler.ListMine)
			authenticated.GET("/harvests/:id", harvestHandler.GetListing)
			authenticated.PUT("/harvests/:id", harvestHandler.UpdateListing)
			authenticated.DELETE("/harvests/:id", harvestHandler.DeleteListing)
			authenticated.POST("/harvests/:id/purchase", transactionHandler.Purchase)

			authenticated.GET("/transactions", transactionHandler.List)
			authenticated.GET("/transactions/stats", transactionHandler.Stats)
			authenticated.GET("/transactions/:id", transactionHandler.Get)
			authenticated.PUT("/transactions/:id/status", transactionHandler.UpdateStatus)

			authenticated.GET("/messages", messageHandler.Inbox)
			authenticated.POST("/messages", messageHandler.Send)
			authenticated.GET("/messages/unread-count", messageHandler.UnreadCount)
			authenticated.GET("/messages/:id", messageHandler.Get)
			authenticated.POST("/messages/:id/reply", messageHandler.Reply)
			authenticated.POST("/messages/:id/read", messageHandler.MarkRead)

			authenticated.POST("/tokens", tokenHandler.CreateToken)
			authenticated.GET("/tokens", tokenHandler.ListTokens)
			authenticated.DELETE("/tokens/:id", tokenHandler.DeleteToken)

			authenticated.GET("/export", exportHandler.Export)
		}
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Farm Exchange server on %s", addr)
	if cfg.TestMode {
		log.Println("TEST MODE ENABLED - Authentication bypassed")
	}
	return router.Run(addr)
}
