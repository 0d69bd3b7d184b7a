package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

func TestEmbedHappyPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Input, 2)

		// Out-of-order indices must still land in input order.
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float32{0, 1}},
				{"index": 0, "embedding": []float32{1, 0}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{
		Endpoint: server.URL,
		Model:    "test-model",
		APIKey:   "secret",
		Timeout:  time.Second,
	}, logging.NewNopLogger())

	vectors, err := client.Embed(context.Background(), []string{"첫 문장", "둘째 문장"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 0}, vectors[0])
	assert.Equal(t, []float32{0, 1}, vectors[1])
}

func TestEmbedEmptyInput(t *testing.T) {
	client := NewClient(Config{Endpoint: "http://unused"}, logging.NewNopLogger())
	vectors, err := client.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestEmbedErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL}, logging.NewNopLogger())
	_, err := client.Embed(context.Background(), []string{"문장"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeEmbeddingFailed))
	assert.Contains(t, err.Error(), "503")
}

func TestEmbedCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"index": 0, "embedding": []float32{1}}},
		})
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL}, logging.NewNopLogger())
	_, err := client.Embed(context.Background(), []string{"하나", "둘"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeEmbeddingFailed))
}

func TestEmbedUnreachableBackend(t *testing.T) {
	client := NewClient(Config{Endpoint: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}, logging.NewNopLogger())
	_, err := client.Embed(context.Background(), []string{"문장"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeEmbeddingFailed))
}
