// Package groq is a thin client for the Groq OpenAI-compatible chat
// completions API.
package groq

import (
	"context"
	"encoding/json"
	"time"

	"genie/internal/middleware"
	"genie/internal/models"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// ChatMessage is a single turn in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// Completion is the subset of a completion response callers care about.
type Completion struct {
	Content     string
	Model       string
	TotalTokens int
}

// Client talks to the Groq API.
type Client struct {
	http   *resty.Client
	apiKey string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(url)
	}
}

// NewClient returns a Groq client. An empty apiKey yields a client whose
// Configured method reports false; callers must check before use.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(60 * time.Second),
		apiKey: apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// ChatCompletion runs a completion request and returns the first choice.
func (c *Client) ChatCompletion(ctx context.Context, model string, messages []ChatMessage, temperature float64, maxTokens int) (*Completion, error) {
	if !c.Configured() {
		return nil, models.NewUnconfiguredError("Groq API key not configured")
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(c.apiKey).
		SetBody(chatCompletionRequest{
			Model:       model,
			Messages:    messages,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		}).
		Post("/chat/completions")

	if err != nil {
		middleware.ProviderRequests.WithLabelValues("groq", "error").Inc()
		return nil, models.NewUpstreamError(0, "Failed to process request")
	}

	if !res.IsSuccess() {
		middleware.ProviderRequests.WithLabelValues("groq", "error").Inc()
		return nil, models.NewUpstreamError(res.StatusCode(), upstreamMessage(res.Body(), "Failed to process request"))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(res.Body(), &parsed); err != nil || len(parsed.Choices) == 0 {
		middleware.ProviderRequests.WithLabelValues("groq", "error").Inc()
		return nil, models.NewUpstreamError(0, "Failed to process request")
	}

	middleware.ProviderRequests.WithLabelValues("groq", "success").Inc()
	return &Completion{
		Content:     parsed.Choices[0].Message.Content,
		Model:       parsed.Model,
		TotalTokens: parsed.Usage.TotalTokens,
	}, nil
}

// upstreamMessage extracts a human message from a provider error body.
func upstreamMessage(body []byte, fallback string) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return fallback
}
