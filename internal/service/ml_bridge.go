package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/domain"
)

// classifyRequest is the body sent to the food classification service
type classifyRequest struct {
	Text string `json:"text"`
}

// classifyResponse is returned by the food classification service
type classifyResponse struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// ClassifierBridge handles communication with the external food classifier
type ClassifierBridge struct {
	serviceURL string
	httpClient *http.Client
	fallback   domain.Classifier
}

// NewClassifierBridge creates a new classifier bridge. When fallback is not
// nil it answers whenever the remote service cannot.
func NewClassifierBridge(serviceURL string, timeout time.Duration, fallback domain.Classifier) *ClassifierBridge {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ClassifierBridge{
		serviceURL: serviceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		fallback: fallback,
	}
}

// Classify maps a coarse food-type hint onto a category
func (b *ClassifierBridge) Classify(ctx context.Context, text string) (string, error) {
	resp, err := b.call(ctx, "classify", text)
	if err != nil {
		if b.fallback == nil {
			return "", err
		}
		log.Warn().Err(err).Msg("Food classifier unavailable, using fallback")
		return b.fallback.Classify(ctx, text)
	}
	return resp.Category, nil
}

// MatchBestCategory matches a dish name and returns the category with its score
func (b *ClassifierBridge) MatchBestCategory(ctx context.Context, text string) (string, float64, error) {
	resp, err := b.call(ctx, "match", text)
	if err != nil {
		if b.fallback == nil {
			return "", 0, err
		}
		log.Warn().Err(err).Msg("Food classifier unavailable, using fallback")
		return b.fallback.MatchBestCategory(ctx, text)
	}
	return resp.Category, resp.Score, nil
}

func (b *ClassifierBridge) call(ctx context.Context, endpoint, text string) (classifyResponse, error) {
	// Prepare request body
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return classifyResponse{}, fmt.Errorf("classifier_bridge: failed to marshal request: %w", err)
	}

	// Create HTTP request
	url := fmt.Sprintf("%s/%s", b.serviceURL, endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return classifyResponse{}, fmt.Errorf("classifier_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// Execute request
	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return classifyResponse{}, fmt.Errorf("classifier_bridge: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return classifyResponse{}, fmt.Errorf("classifier_bridge: %s returned status %d", endpoint, resp.StatusCode)
	}

	// Parse response
	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return classifyResponse{}, fmt.Errorf("classifier_bridge: failed to decode response: %w", err)
	}
	if out.Category == "" {
		return classifyResponse{}, errors.New("classifier_bridge: response has no category")
	}

	return out, nil
}

// Health checks classifier service connectivity
func (b *ClassifierBridge) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", b.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("classifier_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("classifier_bridge: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier_bridge: health check returned status %d", resp.StatusCode)
	}

	return nil
}
