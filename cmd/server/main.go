package main

import (
	"context"
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
	"github.com/joho/godotenv"
	config "github.com/pagequeue/pagequeue/configs"
	"github.com/pagequeue/pagequeue/internal/api/handlers"
	"github.com/pagequeue/pagequeue/internal/database"
	"github.com/pagequeue/pagequeue/internal/models"
	"github.com/pagequeue/pagequeue/internal/platform"
	"github.com/pagequeue/pagequeue/internal/repository"
	"github.com/pagequeue/pagequeue/internal/scheduler"
	"github.com/pagequeue/pagequeue/internal/service"
	"github.com/pagequeue/pagequeue/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := database.Connect(cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store, err := newBlobStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

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

	postRepo := repository.NewPostRepository(db)
	imageRepo := repository.NewImageRepository(db)

	registry := platform.NewRegistry()
	registry.Register(models.PlatformFacebook, platform.NewFacebookPublisher(cfg.Facebook, cfg.PlatformTimeout))

	captionService := service.NewCaptionService()
	imageService := service.NewImageService(imageRepo, store)
	postService := service.NewPostService(postRepo, imageRepo, registry, captionService)
	publishService := service.NewPublishService(postRepo, imageRepo, store, registry)

	sched := scheduler.New(postRepo, publishService, cfg.SchedulerInterval, cfg.LookbackWindow)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	if cfg.Storage.Backend == "local" {
		app.Static("/uploads", cfg.UploadDir)
	}

	api := app.Group("/api")

	image := handlers.NewImageHandler(imageService)
	api.Post("/images", image.UploadImages)
	api.Get("/images", image.ListImages)
	api.Delete("/images", image.RemoveImage)

	post := handlers.NewPostHandler(postService)
	api.Post("/posts", post.CreatePost)
	api.Post("/posts/auto", post.CreateAutomaticPost)
	api.Get("/posts", post.ListPosts)
	api.Put("/posts", post.UpdatePost)
	api.Delete("/posts", post.RemovePost)

	publish := handlers.NewPublishHandler(publishService)
	api.Post("/posts/publish", publish.PublishPost)
	api.Get("/platforms/:platform/connection", publish.CheckConnection)

	caption := handlers.NewCaptionHandler(captionService, imageService)
	api.Post("/captions/generate", caption.GenerateCaption)

	schedulerHandler := handlers.NewSchedulerHandler(sched)
	api.Post("/scheduler", schedulerHandler.Control)
	api.Get("/scheduler", schedulerHandler.Status)

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ListenAddr)

	gracefulShutdown(app, db, sched)
}

func newBlobStorage(cfg *config.Config) (storage.BlobStorage, error) {
	switch cfg.Storage.Backend {
	case "local":
		return storage.NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL)
	case "s3":
		return storage.NewS3Storage(context.Background(), cfg.Storage)
	}
	return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB, sched *scheduler.Scheduler) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	sched.Stop()

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
