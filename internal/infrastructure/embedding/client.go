// Package embedding calls an OpenAI-compatible embeddings endpoint and
// adapts it to the match.Embedder interface.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// Config holds the embedding backend settings.
type Config struct {
	Endpoint string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Client posts batches to the /v1/embeddings-style endpoint.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logging.Logger
}

// NewClient builds an embedding client. The endpoint must be non-empty;
// callers decide upstream whether semantic matching is enabled at all.
func NewClient(cfg Config, logger logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger.Named("embedding.client"),
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed implements match.Embedder. Vectors come back in input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Model: c.cfg.Model, Input: texts})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSerialization, "failed to encode embedding request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "failed to build embedding request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeEmbeddingFailed, "embedding request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.New(apperrors.CodeEmbeddingFailed,
			fmt.Sprintf("embedding backend returned status %d: %s", resp.StatusCode, snippet))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeSerialization, "failed to decode embedding response")
	}
	if len(decoded.Data) != len(texts) {
		return nil, apperrors.New(apperrors.CodeEmbeddingFailed,
			fmt.Sprintf("embedding backend returned %d vectors for %d inputs", len(decoded.Data), len(texts)))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range decoded.Data {
		if item.Index < 0 || item.Index >= len(vectors) {
			return nil, apperrors.New(apperrors.CodeEmbeddingFailed,
				fmt.Sprintf("embedding backend returned out-of-range index %d", item.Index))
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}
