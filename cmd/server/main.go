package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"theatre-production-manager/internal/archive"
	"theatre-production-manager/internal/board"
	"theatre-production-manager/internal/cache"
	"theatre-production-manager/internal/config"
	"theatre-production-manager/internal/db"
	"theatre-production-manager/internal/events"
	"theatre-production-manager/internal/middleware"
	"theatre-production-manager/internal/packing"
	"theatre-production-manager/internal/prop"
	"theatre-production-manager/internal/shopping"
	"theatre-production-manager/internal/show"
	"theatre-production-manager/internal/store"
	"theatre-production-manager/internal/user"
	"theatre-production-manager/internal/worker"
	"theatre-production-manager/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()

	log := logger.New(config.AppConfig.LogLevel)

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Seed database with initial data (for development)
	db.SeedData()

	// Shared infrastructure
	appCache := cache.New(config.AppConfig.RedisAddress)
	defer appCache.Close()
	pool := worker.NewPool(config.AppConfig.WorkerPoolSize, log)
	publisher := events.NewPublisher(config.AppConfig.RabbitMQURL, log)
	docStore := store.NewGormStore(db.AppDb, nil)

	// Initialize repositories and services
	userRepo := user.NewRepository(db.AppDb)
	userService := user.NewService(userRepo)
	showService := show.NewService(docStore, appCache, pool, nil)
	propService := prop.NewService(docStore, showService, nil)
	boardService := board.NewService(docStore, showService, nil)
	packingService := packing.NewService(docStore, showService, nil)
	shoppingService := shopping.NewService(docStore, showService, nil)
	archiveService := archive.NewService(docStore, log, nil, publisher, pool)

	// Initialize handlers
	userHandler := user.NewHandler(userService)
	showHandler := show.NewHandler(showService)
	propHandler := prop.NewHandler(propService)
	boardHandler := board.NewHandler(boardService)
	packingHandler := packing.NewHandler(packingService)
	shoppingHandler := shopping.NewHandler(shoppingService)
	archiveHandler := archive.NewHandler(archiveService)

	authMw := &middleware.Auth{UserService: userService}

	// Initialize Gin router
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.ErrorHandler(log))

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// User routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.GET("/profile", authMw.AuthMiddleWare(), userHandler.GetProfile)
	router.PUT("/profile/plan", authMw.AuthMiddleWare(), userHandler.ChangePlan)

	authed := router.Group("/", authMw.AuthMiddleWare())

	// Show routes
	authed.POST("/shows", showHandler.Create)
	authed.GET("/shows", showHandler.List)
	authed.GET("/shows/:id", showHandler.Get)
	authed.PATCH("/shows/:id", showHandler.Update)
	authed.DELETE("/shows/:id", showHandler.Delete)
	authed.GET("/shows/:id/collaborators", showHandler.ListCollaborators)
	authed.POST("/shows/:id/collaborators", showHandler.AddCollaborator)
	authed.PUT("/shows/:id/collaborators", showHandler.ChangeCollaboratorRole)
	authed.DELETE("/shows/:id/collaborators/:userId", showHandler.RemoveCollaborator)

	// Prop routes
	authed.POST("/props", propHandler.Create)
	authed.GET("/props/:id", propHandler.Get)
	authed.PATCH("/props/:id", propHandler.Update)
	authed.DELETE("/props/:id", propHandler.Delete)
	authed.GET("/shows/:id/props", propHandler.ListByShow)

	// Task board routes
	authed.POST("/boards", boardHandler.Create)
	authed.GET("/boards/:id", boardHandler.Get)
	authed.DELETE("/boards/:id", boardHandler.Delete)
	authed.GET("/shows/:id/boards", boardHandler.ListByShow)
	authed.POST("/boards/:id/lists", boardHandler.CreateList)
	authed.POST("/boards/:id/lists/:listId/cards", boardHandler.CreateCard)
	authed.PATCH("/boards/:id/cards/:cardId", boardHandler.UpdateCard)

	// Packing list routes
	authed.POST("/packing-lists", packingHandler.Create)
	authed.GET("/packing-lists/:id", packingHandler.Get)
	authed.DELETE("/packing-lists/:id", packingHandler.Delete)
	authed.GET("/shows/:id/packing-lists", packingHandler.ListByShow)
	authed.POST("/packing-lists/:id/boxes", packingHandler.AddBox)
	authed.PATCH("/packing-lists/:id/boxes/:boxId", packingHandler.UpdateBox)

	// Shopping list routes
	authed.POST("/shopping-lists", shoppingHandler.Create)
	authed.PATCH("/shopping-lists/:id", shoppingHandler.Update)
	authed.DELETE("/shopping-lists/:id", shoppingHandler.Delete)
	authed.GET("/shows/:id/shopping-lists", shoppingHandler.ListByShow)

	// Archive routes
	authed.POST("/shows/:id/archive", archiveHandler.Archive)
	authed.DELETE("/shows/:id/permanent", archiveHandler.PermanentlyDelete)
	authed.GET("/archives", archiveHandler.List)
	authed.GET("/archives/:id", archiveHandler.Get)
	authed.POST("/archives/:id/restore", archiveHandler.Restore)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Printf("Server listening on port %s", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("Server shutdown error:", err)
	}

	// drain background tasks before exit
	pool.Shutdown()

	log.Println("Server shutdown complete")
}
