package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"genie/internal/minimax"
	"genie/internal/models"

	"github.com/stretchr/testify/assert"
)

func fakeMiniMax(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/video_generation":
			json.NewEncoder(w).Encode(map[string]string{"task_id": "task-42"})
		case "/query/video_generation":
			json.NewEncoder(w).Encode(map[string]string{
				"task_id": r.URL.Query().Get("task_id"),
				"status":  minimax.StatusProcessing,
			})
		case "/files/retrieve":
			json.NewEncoder(w).Encode(map[string]any{
				"file": map[string]string{"download_url": "https://cdn.example.com/out.mp4"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVideoEndpoints(t *testing.T) {
	db := setupHandlerTestDB(t)
	s, app := newTestServer(t, db)
	user := createTestUser(t, db, "mia", "mia@example.com")

	upstream := fakeMiniMax(t)
	s.minimaxClient = minimax.NewClient("mm-key", minimax.WithBaseURL(upstream.URL))

	t.Run("Generate returns the task ID", func(t *testing.T) {
		req := authedRequest(t, s, user, http.MethodPost, "/api/video/generate", map[string]string{
			"prompt": "a whale breaching at sunset",
		})
		var got struct {
			TaskID string `json:"taskId"`
		}
		resp := doRequest(t, app, req, &got)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "task-42", got.TaskID)
	})

	t.Run("Status reports the task state", func(t *testing.T) {
		req := authedRequest(t, s, user, http.MethodGet, "/api/video/status/task-42", nil)
		var got minimax.TaskStatus
		resp := doRequest(t, app, req, &got)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "task-42", got.TaskID)
		assert.Equal(t, minimax.StatusProcessing, got.Status)
	})

	t.Run("Download resolves the file URL", func(t *testing.T) {
		req := authedRequest(t, s, user, http.MethodGet, "/api/video/download/file-7", nil)
		var got struct {
			DownloadURL string `json:"downloadUrl"`
		}
		resp := doRequest(t, app, req, &got)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "https://cdn.example.com/out.mp4", got.DownloadURL)
	})

	t.Run("Empty prompt is rejected", func(t *testing.T) {
		req := authedRequest(t, s, user, http.MethodPost, "/api/video/generate", map[string]string{})
		var errResp models.ErrorResponse
		resp := doRequest(t, app, req, &errResp)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Prompt is required", errResp.Error)
	})
}

func TestVideoEndpoints_Unconfigured(t *testing.T) {
	db := setupHandlerTestDB(t)
	s, app := newTestServer(t, db)
	user := createTestUser(t, db, "nina", "nina@example.com")

	s.minimaxClient = minimax.NewClient("")

	req := authedRequest(t, s, user, http.MethodPost, "/api/video/generate", map[string]string{
		"prompt": "anything",
	})
	var errResp models.ErrorResponse
	resp := doRequest(t, app, req, &errResp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "MiniMax API key not configured", errResp.Error)
}
