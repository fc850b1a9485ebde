package main

import (
	"fmt"
	"log"

	"finchat/internal/cache"
	"finchat/internal/chat"
	"finchat/internal/config"
	"finchat/internal/db"
	"finchat/internal/models"
	"finchat/internal/pkg/finlife"
	"finchat/internal/pkg/openai"
	"finchat/internal/products"
	"finchat/internal/routes"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbConn, err := db.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := dbConn.AutoMigrate(&models.Product{}, &models.ProductOption{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var store cache.Cache
	if cfg.RedisURL != "" {
		store, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
	} else {
		log.Println("REDIS_URL not set, using in-process cache")
		store = cache.NewMemoryCache()
	}

	recommender, err := openai.NewRecommenderFromEnv()
	if err != nil {
		log.Fatalf("Failed to create recommender: %v", err)
	}

	productService := products.NewService(finlife.New(cfg.FSSAPIKey), store, dbConn)
	advisor := chat.NewAdvisor(productService, recommender)
	sessions := chat.NewStore()

	router := routes.SetupRouter(dbConn, sessions, advisor)

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
