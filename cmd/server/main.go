package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "media-pipeline/docs"

	"media-pipeline/internal/delivery/http/handlers"
	"media-pipeline/internal/delivery/http/routers"
	"media-pipeline/internal/domain/repositories"
	"media-pipeline/internal/infrastructure/events"
	"media-pipeline/internal/infrastructure/progress"
	"media-pipeline/internal/infrastructure/storage"
	"media-pipeline/internal/pkg/config"
	"media-pipeline/internal/usecases"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/swagger"
)

// @title        Media Pipeline API
// @version      1.0
// @description  Media ingestion and progressive upload pipeline
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()

	// Redis opsiyonel; yoksa event yayını atlanır
	var rdb *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
	}
	publisher := events.NewPublisher(rdb)

	store, err := buildStorage(cfg)
	if err != nil {
		log.Fatalf("Storage backend kurulamadı: %v", err)
	}

	registry := progress.NewRegistry()
	uploadService := usecases.NewUploadService(cfg, store, registry, publisher)
	metadataService := usecases.NewMetadataService(cfg.Endpoint)

	app := fiber.New(fiber.Config{
		// Orijinal + türevler aynı istekte taşınabildiği için paya ek yer bırakılır
		BodyLimit: int(cfg.Upload.MaxFileSize) * 2,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Handlers & Routes
	uploadHandler := handlers.NewUploadHandler(uploadService, metadataService, publisher)
	mediaHandler := handlers.NewMediaHandler(store)
	routers.SetupUploadRoutes(app, uploadHandler)
	routers.SetupMediaRoutes(app, mediaHandler)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s (storage backend: %s)", addr, cfg.Storage.Backend)

	// Graceful shutdown
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server başlatılamadı: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Print("Shutdown sinyali alındı, server kapatılıyor...")

	ctxShut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctxShut); err != nil {
		log.Fatalf("Server düzgün kapatılamadı: %v", err)
	}
	log.Println("Server düzgün bir şekilde kapatıldı")
}

func buildStorage(cfg *config.Config) (repositories.StorageStrategy, error) {
	switch cfg.Storage.Backend {
	case "s3":
		return storage.NewS3Storage(cfg.Storage.S3Bucket, cfg.Storage.S3Region)
	case "local":
		return storage.NewLocalStorage(cfg.Storage.LocalDir), nil
	default:
		return storage.NewHTTPStorage(cfg.Endpoint), nil
	}
}
