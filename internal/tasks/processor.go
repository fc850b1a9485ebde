package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"finchat/internal/cache"
	"finchat/internal/config"
	"finchat/internal/pkg/finlife"
	"finchat/internal/pkg/maturity"
	"finchat/internal/products"
)

// TaskProcessor holds dependencies for our task handlers
type TaskProcessor struct {
	DB            *gorm.DB
	config        *config.Config
	finlifeClient *finlife.Client
	service       *products.Service
}

// NewTaskProcessor creates a new TaskProcessor
func NewTaskProcessor(db *gorm.DB, config *config.Config, store cache.Cache) *TaskProcessor {
	client := finlife.New(config.FSSAPIKey)

	return &TaskProcessor{
		DB:            db,
		config:        config,
		finlifeClient: client,
		service:       products.NewService(client, store, db),
	}
}

func (p *TaskProcessor) GetFinlifeClient() *finlife.Client {
	return p.finlifeClient
}

// HandleRefreshProductsTask re-fetches finlife listings and replaces the
// stored rows and cache. Upstream failures are logged, not retried; the
// scheduler will run again anyway.
func (p *TaskProcessor) HandleRefreshProductsTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Refreshing product listings")

	var payload RefreshProductsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", asynq.SkipRetry)
	}

	categories := []maturity.Category{maturity.CategoryDeposit, maturity.CategorySavings}
	if payload.Category != nil {
		category, ok := maturity.ParseCategory(*payload.Category)
		if !ok {
			return fmt.Errorf("unknown category %q: %w", *payload.Category, asynq.SkipRetry)
		}
		categories = []maturity.Category{category}
	}

	for _, category := range categories {
		listings, err := p.service.Refresh(ctx, category)
		if err != nil {
			log.Printf("failed to refresh %s products: %v", category, err)
			continue
		}
		log.Printf("refreshed %d %s products", len(listings), category)
	}

	return nil
}
