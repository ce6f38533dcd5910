// Package minimax is a client for the MiniMax video generation API.
package minimax

import (
	"context"
	"encoding/json"
	"time"

	"genie/internal/middleware"
	"genie/internal/models"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.minimaxi.chat/v1"

// DefaultVideoModel is used when the client did not pick one.
const DefaultVideoModel = "T2V-01"

// Task statuses reported by the query endpoint.
const (
	StatusQueueing   = "Queueing"
	StatusPreparing  = "Preparing"
	StatusProcessing = "Processing"
	StatusSuccess    = "Success"
	StatusFail       = "Fail"
)

// TaskStatus is the polled state of a generation task. FileID is set once
// the task reaches Success.
type TaskStatus struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	FileID string `json:"file_id,omitempty"`
}

type generateResponse struct {
	TaskID string `json:"task_id"`
}

type retrieveFileResponse struct {
	File struct {
		DownloadURL string `json:"download_url"`
	} `json:"file"`
}

type errorResponse struct {
	Message string `json:"message"`
	BaseResp struct {
		StatusMsg string `json:"status_msg"`
	} `json:"base_resp"`
}

// Client talks to the MiniMax API.
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

// NewClient returns a MiniMax client. An empty apiKey yields a client whose
// Configured method reports false; callers must check before use.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(30 * time.Second),
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

// GenerateVideo submits a text-to-video task and returns its task ID.
func (c *Client) GenerateVideo(ctx context.Context, prompt, model string) (string, error) {
	if !c.Configured() {
		return "", models.NewUnconfiguredError("MiniMax API key not configured")
	}
	if model == "" {
		model = DefaultVideoModel
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(c.apiKey).
		SetBody(map[string]string{"prompt": prompt, "model": model}).
		Post("/video_generation")

	if err != nil {
		middleware.ProviderRequests.WithLabelValues("minimax", "error").Inc()
		return "", models.NewUpstreamError(0, "Video generation failed")
	}
	if !res.IsSuccess() {
		middleware.ProviderRequests.WithLabelValues("minimax", "error").Inc()
		return "", models.NewUpstreamError(res.StatusCode(), upstreamMessage(res.Body(), "Video generation failed"))
	}

	var parsed generateResponse
	if err := json.Unmarshal(res.Body(), &parsed); err != nil || parsed.TaskID == "" {
		middleware.ProviderRequests.WithLabelValues("minimax", "error").Inc()
		return "", models.NewUpstreamError(0, "Video generation failed")
	}

	middleware.ProviderRequests.WithLabelValues("minimax", "success").Inc()
	return parsed.TaskID, nil
}

// QueryTask polls a generation task.
func (c *Client) QueryTask(ctx context.Context, taskID string) (*TaskStatus, error) {
	if !c.Configured() {
		return nil, models.NewUnconfiguredError("MiniMax API key not configured")
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetQueryParam("task_id", taskID).
		Get("/query/video_generation")

	if err != nil {
		middleware.ProviderRequests.WithLabelValues("minimax", "error").Inc()
		return nil, models.NewUpstreamError(0, "Status check failed")
	}
	if !res.IsSuccess() {
		middleware.ProviderRequests.WithLabelValues("minimax", "error").Inc()
		return nil, models.NewUpstreamError(res.StatusCode(), upstreamMessage(res.Body(), "Status check failed"))
	}

	var parsed TaskStatus
	if err := json.Unmarshal(res.Body(), &parsed); err != nil {
		middleware.ProviderRequests.WithLabelValues("minimax", "error").Inc()
		return nil, models.NewUpstreamError(0, "Status check failed")
	}

	middleware.ProviderRequests.WithLabelValues("minimax", "success").Inc()
	return &parsed, nil
}

// RetrieveFile resolves a finished task's file ID to a download URL.
func (c *Client) RetrieveFile(ctx context.Context, fileID string) (string, error) {
	if !c.Configured() {
		return "", models.NewUnconfiguredError("MiniMax API key not configured")
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetQueryParam("file_id", fileID).
		Get("/files/retrieve")

	if err != nil {
		middleware.ProviderRequests.WithLabelValues("minimax", "error").Inc()
		return "", models.NewUpstreamError(0, "Download failed")
	}
	if !res.IsSuccess() {
		middleware.ProviderRequests.WithLabelValues("minimax", "error").Inc()
		return "", models.NewUpstreamError(res.StatusCode(), upstreamMessage(res.Body(), "Download failed"))
	}

	var parsed retrieveFileResponse
	if err := json.Unmarshal(res.Body(), &parsed); err != nil || parsed.File.DownloadURL == "" {
		middleware.ProviderRequests.WithLabelValues("minimax", "error").Inc()
		return "", models.NewUpstreamError(0, "Download failed")
	}

	middleware.ProviderRequests.WithLabelValues("minimax", "success").Inc()
	return parsed.File.DownloadURL, nil
}

func upstreamMessage(body []byte, fallback string) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.BaseResp.StatusMsg != "" {
			return parsed.BaseResp.StatusMsg
		}
	}
	return fallback
}
