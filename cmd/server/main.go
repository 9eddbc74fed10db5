package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/linkplace/placeflow/configs"
	"github.com/linkplace/placeflow/internal/api/handlers"
	"github.com/linkplace/placeflow/internal/api/middleware"
	"github.com/linkplace/placeflow/internal/cache"
	job "github.com/linkplace/placeflow/internal/jobs"
	"github.com/linkplace/placeflow/internal/publisher"
	"github.com/linkplace/placeflow/internal/queue"
	"github.com/linkplace/placeflow/internal/repository"
	"github.com/linkplace/placeflow/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	cacheClient, err := cache.NewClient(cfg.RedisURI, "")
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cacheClient.Close()

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	placementRepo := repository.NewPlacementRepository(db)
	placementContentRepo := repository.NewPlacementContentRepository(db)
	lockRepo := repository.NewLockRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	billing := service.NewBillingLedger(userRepo, transactionRepo, service.DefaultTiers)
	gateway := publisher.NewWordPressGateway()

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(db, userRepo, transactionRepo, billing)
	assetService := service.NewAssetService(*cfg)
	contentService := service.NewContentService(projectRepo, linkRepo, articleRepo)
	placementService := service.NewPlacementService(db, lockRepo, siteRepo, linkRepo, articleRepo,
		placementRepo, placementContentRepo, projectRepo, userRepo, billing, gateway, cacheClient, cfg.SecretKey)
	siteService := service.NewSiteService(db, lockRepo, siteRepo, placementRepo, placementContentRepo,
		linkRepo, articleRepo, projectRepo, userRepo, auditRepo, billing, gateway, cacheClient, cfg.SecretKey)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)
	app.Get("/logout", auth.Logout)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/deposit", user.Deposit)
	api.Get("/user/transactions", user.ListTransactions)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	site := handlers.NewSiteHandler(siteService)
	api.Post("/sites/register", site.RegisterSite)
	api.Get("/sites", site.ListSites)
	api.Post("/sites/remove", site.RemoveSite)

	content := handlers.NewContentHandler(contentService, assetService)
	api.Post("/projects/create", content.CreateProject)
	api.Get("/projects", content.ListProjects)
	api.Post("/links/create", content.CreateLink)
	api.Get("/links", content.ListLinks)
	api.Post("/articles/create", content.CreateArticle)
	api.Get("/articles", content.ListArticles)
	api.Post("/articles/image", content.UploadArticleImage)

	placement := handlers.NewPlacementHandler(placementService, client)
	api.Post("/placements/create", placement.CreatePlacement)
	api.Get("/placements", placement.ListPlacements)
	api.Post("/placements/remove", placement.RemovePlacement)
	api.Post("/placements/renew", placement.RenewPlacement)

	// cron jobs
	expiryJob := job.NewExpiryJob(placementRepo, projectRepo, placementService)

	// queue
	queueW := queue.NewQueue(placementService)

	c := cron.New()
	c.AddFunc("@every 00h10m00s", expiryJob.SweepExpired)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPlacement, queueW.HandlePublishPlacementTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
