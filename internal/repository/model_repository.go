package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/go-resty/resty/v2"
)

// ModelRepository sends a conversation to the generative language model.
type ModelRepository interface {
	Generate(ctx context.Context, turns []model.ChatTurn) (string, error)
}

type modelRepository struct {
	client   *resty.Client
	endpoint string
	apiKey   func() string
}

func NewModelRepository(httpClient ...*http.Client) ModelRepository {
	client := &http.Client{}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	return newModelRepository(client, config.GetModelEndpoint(), config.GetModelAPIKey)
}

func newModelRepository(httpClient *http.Client, endpoint string, apiKey func() string) *modelRepository {
	return &modelRepository{
		client:   resty.NewWithClient(httpClient).SetTimeout(config.GetHTTPTimeout()),
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

// Generate returns the text of the first candidate. A context error is returned unwrapped
// so callers can tell cancellation apart from failure.
func (r *modelRepository) Generate(ctx context.Context, turns []model.ChatTurn) (string, error) {
	apiKey := r.apiKey()
	if apiKey == "" {
		return "", ErrAPIKeyMissing
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("key", apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(model.NewGeminiRequest(turns)).
		Post(r.endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrExternalAPI, err)
	}
	if !resp.IsSuccess() {
		return "", &StatusError{Path: "generateContent", Code: resp.StatusCode()}
	}

	var data model.GeminiResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	text := data.Text()
	if text == "" {
		return "", fmt.Errorf("%w: no candidate text", ErrMalformedBody)
	}
	return text, nil
}
