package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"finchat/internal/cache"
	"finchat/internal/config"
	"finchat/internal/db"
	"finchat/internal/models"
	"finchat/internal/tasks"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbConn, err := db.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Worker connected to database.")

	if err := dbConn.AutoMigrate(&models.Product{}, &models.ProductOption{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	store, err := cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	refreshTask, err := tasks.NewRefreshProductsTask(nil)
	if err != nil {
		log.Fatalf("Failed to create refresh products task: %v", err)
	}

	// every 6 hours; the upstream disclosure data changes monthly
	entryID, err := scheduler.Register("0 */6 * * *", refreshTask, asynq.Queue("default"))
	if err != nil {
		log.Fatalf("Failed to register periodic task: %v", err)
	}
	log.Printf("Registered periodic task: %s (EntryID: %s)", refreshTask.Type(), entryID)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Queues: map[string]int{
				"default": 3,
			},
			Concurrency: 10,
		},
	)

	taskProcessor := tasks.NewTaskProcessor(dbConn, cfg, store)

	mux := asynq.NewServeMux()
	mux.HandleFunc(
		tasks.TypeTaskRefreshProducts,
		taskProcessor.HandleRefreshProductsTask,
	)

	// refresh once on startup so a fresh deploy has listings
	if _, err := asynqClient.Enqueue(refreshTask); err != nil {
		log.Fatalf("Failed to enqueue refresh products task: %v", err)
	}

	go func() {
		log.Println("Starting Asynq scheduler...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("Could not run Asynq scheduler: %v", err)
		}
	}()

	go func() {
		log.Println("Starting Asynq worker server...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("Could not run Asynq worker server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("Shutdown signal received, shutting down gracefully...")

	scheduler.Shutdown()
	log.Println("Asynq scheduler shut down.")

	srv.Shutdown()
	log.Println("Asynq worker server shut down.")

	asynqClient.Close()
	log.Println("Asynq client closed.")

	log.Println("Worker process shut down complete.")
}
