// internal/adapters/suggest/http.go
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/ammerola/stockpile/internal/core/ports"
)

const maxResponseBytes = 64 << 10

// HTTPConfig configures the remote category suggester
type HTTPConfig struct {
	URL       string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64 // requests per second, <= 0 disables limiting
	Burst     int
}

// HTTPSuggester calls a remote service that answers
// {"name": "..."} with {"categorySuggestion": "..."}.
type HTTPSuggester struct {
	url     string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Statically assert that *HTTPSuggester implements the CategorySuggester interface.
var _ ports.CategorySuggester = (*HTTPSuggester)(nil)

type suggestRequest struct {
	Name string `json:"name"`
}

type suggestResponse struct {
	CategorySuggestion string `json:"categorySuggestion"`
}

// NewHTTPSuggester creates a new remote suggester
func NewHTTPSuggester(cfg HTTPConfig, client *http.Client, logger *slog.Logger) *HTTPSuggester {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &HTTPSuggester{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		client:  client,
		limiter: limiter,
		logger:  logger.With(slog.String("adapter", "http_suggester")),
	}
}

// SuggestCategory asks the remote service for a category.
func (s *HTTPSuggester) SuggestCategory(ctx context.Context, name string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(suggestRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("suggest request failed: %w", err)
	}
	defer resp.Body.Close()

	s.logger.DebugContext(ctx, "suggest request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("suggest service returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out suggestResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode suggest response: %w", err)
	}

	return out.CategorySuggestion, nil
}
