package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"media-pipeline/internal/infrastructure/events"
	"media-pipeline/internal/pkg/config"
	"media-pipeline/internal/usecases"
	consts "media-pipeline/pkg/constants"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
)

const maxAttempts = 5

// Metadata retry worker: doğrulanmış transferden sonra metadata yazımı
// başarısız olan kayıtları kuyruktan alıp tekrar dener.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.LoadConfig()

	addr := cfg.RedisAddr()
	if addr == "" {
		log.Fatal("REDIS_HOST ayarlı değil, worker'ın dinleyeceği kuyruk yok")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	publisher := events.NewPublisher(rdb)

	metadataService := usecases.NewMetadataService(cfg.Endpoint)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Metadata retry worker %s kuyruğunu dinliyor", consts.QueueMetadataRetry)

	for {
		if ctx.Err() != nil {
			log.Println("Shutdown sinyali alındı, worker kapatılıyor")
			return
		}

		// Timeout'lu BRPop: shutdown sinyali en geç 5 saniyede görülür
		val, err := rdb.BRPop(ctx, 5*time.Second, consts.QueueMetadataRetry).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Println("BRPop failed:", err)
			time.Sleep(time.Second)
			continue
		}

		job, err := events.DeserializeRetryJob(val[1])
		if err != nil {
			log.Println("Deserialize retry job failed:", err)
			continue
		}

		if _, err := metadataService.Persist(ctx, job.Key, job.Record, job.Token); err != nil {
			job.Attempts++
			if job.Attempts >= maxAttempts {
				log.Printf("Metadata yazımı %s için %d denemede de başarısız, bırakılıyor: %v", job.Key, job.Attempts, err)
				continue
			}
			log.Printf("Metadata yazımı %s için başarısız (deneme %d), tekrar kuyruğa atılıyor: %v", job.Key, job.Attempts, err)
			if pubErr := publisher.PublishMetadataRetry(ctx, *job); pubErr != nil {
				log.Printf("Retry job tekrar kuyruğa atılamadı: %v", pubErr)
			}
			continue
		}

		log.Printf("Metadata yazımı %s için başarıyla tamamlandı", job.Key)
	}
}
