package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

const (
	defaultModel     = shared.ResponsesModel("gpt-5.1")
	previewByteLimit = 128 * 1024 // cap what we send to the model
)

var (
	// ErrMissingAPIKey is returned when OPENAI_API_KEY was not configured.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")
)

// Recommender asks the model to rank three products for a user profile and
// justify each pick in Korean prose quoting rates as 연 N.NN%, so the
// maturity calculator can scan the output.
type Recommender struct {
	client *openai.Client
	model  shared.ResponsesModel
}

// NewRecommenderFromEnv builds a Recommender using the OPENAI_API_KEY env var.
func NewRecommenderFromEnv() (*Recommender, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	return NewRecommender(apiKey), nil
}

func NewRecommender(apiKey string) *Recommender {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Recommender{client: &client, model: defaultModel}
}

// Recommend sends the profile and the product listing JSON to the Responses
// API and returns the assistant's recommendation text.
func (r *Recommender) Recommend(ctx context.Context, risk, goal, horizon, productListJSON string) (string, error) {
	if r == nil || r.client == nil {
		return "", errors.New("Recommender is not initialized")
	}

	resp, err := r.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: r.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(systemPrompt, responses.EasyInputMessageRoleSystem),
				responses.ResponseInputItemParamOfMessage(buildPrompt(risk, goal, horizon, productListJSON), responses.EasyInputMessageRoleUser),
			},
		},
	})

	if err != nil {
		return "", fmt.Errorf("call OpenAI: %w", err)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return "", errors.New("model returned an empty response")
	}

	return output, nil
}
