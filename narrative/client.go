// Package narrative talks to an OpenAI-compatible chat completions API
// to dress deterministic rankings and simulated plays with short pieces
// of prose. Every generator degrades to an empty string when no API key
// is configured, so callers never need the service to be reachable.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/tifye/dugout/assert"
)

const (
	DefaultModel   = "gpt-4o-mini"
	defaultBaseURL = "https://api.openai.com/v1"

	completionTemperature = 0.2
	useDefaultCacheTime   = -1
)

type Client struct {
	logger *log.Logger

	apiKey  string
	model   string
	baseURL string

	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Cache
}

// NewClient builds a narrative client. An empty apiKey leaves the
// client disabled; every generator then returns an empty string.
func NewClient(logger *log.Logger, apiKey, model, baseURL string) *Client {
	assert.AssertNotNil(logger)

	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		logger:  logger,
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		cache:   cache.New(30*time.Minute, 60*time.Minute),
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete runs one system+user exchange. Identical exchanges are
// served from cache to spare tokens when the same play or ranking is
// asked about repeatedly.
func (c *Client) complete(ctx context.Context, system string, content any) (string, error) {
	if !c.Enabled() {
		return "", nil
	}

	body, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("marshal prompt content: %s", err)
	}
	user := string(body)

	cacheKey := system + "\n" + user
	if cached, exists := c.cache.Get(cacheKey); exists {
		text, ok := cached.(string)
		assert.Assert(ok, "expected string type")

		c.logger.Debug("cache hit on completion", "model", c.model)
		return text, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: completionTemperature,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %s", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat completion: status %d: %s", resp.StatusCode, string(detail))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode chat completion: %s", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	text := strings.TrimSpace(decoded.Choices[0].Message.Content)
	c.cache.Set(cacheKey, text, useDefaultCacheTime)
	return text, nil
}
