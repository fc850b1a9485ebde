package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeTaskRefreshProducts = "task:refresh_products"
)

// RefreshProductsPayload selects which listings to refresh. A nil category
// refreshes both deposit and savings.
type RefreshProductsPayload struct {
	Category *string `json:"category"`
}

// NewRefreshProductsTask creates a new task for asynq
func NewRefreshProductsTask(category *string) (*asynq.Task, error) {
	payload := RefreshProductsPayload{
		Category: category,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeTaskRefreshProducts, payloadBytes), nil
}
