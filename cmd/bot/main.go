package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"finchat/internal/cache"
	"finchat/internal/chat"
	"finchat/internal/config"
	"finchat/internal/pkg/finlife"
	"finchat/internal/pkg/openai"
	"finchat/internal/products"
)

// Terminal chat loop. Runs without postgres or redis; listings are fetched
// live and held in the in-process cache.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.FSSAPIKey == "" {
		log.Fatal("FSS_API_KEY is not set")
	}

	recommender, err := openai.NewRecommenderFromEnv()
	if err != nil {
		log.Fatalf("Failed to create recommender: %v", err)
	}

	productService := products.NewService(finlife.New(cfg.FSSAPIKey), cache.NewMemoryCache(), nil)
	advisor := chat.NewAdvisor(productService, recommender)
	session := chat.NewStore().Create()

	fmt.Println(advisor.Greeting())
	fmt.Println("(종료: exit)")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "종료" {
			break
		}

		fmt.Println(advisor.Handle(context.Background(), session, input))
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
}
