// Package gemini provides an embedding service adapter using the Gemini API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	geminiapi "github.com/ragdex-labs/ragdex-cli/internal/adapters/driven/gemini"
	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "text-embedding-004"
	DefaultTimeout = 60 * time.Second
)

// Model dimensions for Gemini embedding models.
var modelDimensions = map[string]int{
	"text-embedding-004":   768,
	"gemini-embedding-001": 3072,
}

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: the public generativelanguage endpoint).
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-004).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions requests truncated output dimensionality where the
	// model supports it. Zero uses the model default.
	Dimensions int

	// RateLimiter throttles requests. Nil uses the embed endpoint defaults.
	RateLimiter *geminiapi.RateLimiter
}

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	limiter    *geminiapi.RateLimiter
}

// embedContent is the Gemini content payload.
type embedContent struct {
	Parts []embedPart `json:"parts"`
}

// embedPart is a single text part.
type embedPart struct {
	Text string `json:"text"`
}

// embedRequest is the Gemini embedContent request format.
type embedRequest struct {
	Model                string       `json:"model"`
	Content              embedContent `json:"content"`
	OutputDimensionality int          `json:"outputDimensionality,omitempty"`
}

// batchEmbedRequest is the Gemini batchEmbedContents request format.
type batchEmbedRequest struct {
	Requests []embedRequest `json:"requests"`
}

// embedValues holds a single embedding vector.
type embedValues struct {
	Values []float32 `json:"values"`
}

// batchEmbedResponse is the Gemini batchEmbedContents response format.
type batchEmbedResponse struct {
	Embeddings []embedValues `json:"embeddings"`
	Error      *apiError     `json:"error,omitempty"`
}

// embedResponse is the Gemini embedContent response format.
type embedResponse struct {
	Embedding *embedValues `json:"embedding"`
	Error     *apiError    `json:"error,omitempty"`
}

// apiError is the Gemini API error envelope.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewEmbeddingService creates a new Gemini embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimiter == nil {
		cfg.RateLimiter = geminiapi.NewRateLimiter(geminiapi.EndpointEmbed)
	}

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		var ok bool
		dimensions, ok = modelDimensions[cfg.Model]
		if !ok {
			dimensions = 768
		}
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: dimensions,
		limiter:    cfg.RateLimiter,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := s.newEmbedRequest(text)

	var embedResp embedResponse
	if err := s.post(ctx, "/models/"+s.model+":embedContent", reqBody, &embedResp); err != nil {
		return nil, err
	}
	if embedResp.Error != nil {
		return nil, fmt.Errorf("gemini error: %s", embedResp.Error.Message)
	}
	if embedResp.Embedding == nil || len(embedResp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini: no embedding returned")
	}

	return embedResp.Embedding.Values, nil
}

// EmbedBatch generates embeddings for multiple texts efficiently.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := batchEmbedRequest{
		Requests: make([]embedRequest, len(texts)),
	}
	for i, text := range texts {
		reqBody.Requests[i] = s.newEmbedRequest(text)
	}

	var batchResp batchEmbedResponse
	if err := s.post(ctx, "/models/"+s.model+":batchEmbedContents", reqBody, &batchResp); err != nil {
		return nil, err
	}
	if batchResp.Error != nil {
		return nil, fmt.Errorf("gemini error: %s", batchResp.Error.Message)
	}
	if len(batchResp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini: expected %d embeddings, got %d", len(texts), len(batchResp.Embeddings))
	}

	embeddings := make([][]float32, len(texts))
	for i, embedding := range batchResp.Embeddings {
		embeddings[i] = embedding.Values
	}

	return embeddings, nil
}

// newEmbedRequest builds a single embedContent request for text.
func (s *EmbeddingService) newEmbedRequest(text string) embedRequest {
	req := embedRequest{
		Model: "models/" + s.model,
		Content: embedContent{
			Parts: []embedPart{{Text: text}},
		},
	}
	if s.dimensions > 0 && s.dimensions != modelDimensions[s.model] {
		req.OutputDimensionality = s.dimensions
	}
	return req
}

// post sends a JSON request to the Gemini API and decodes the response.
func (s *EmbeddingService) post(ctx context.Context, path string, reqBody, respBody any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+path+"?key="+s.apiKey,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		s.limiter.RecordRateLimitError(retryAfter)
		return fmt.Errorf("gemini: %w: %s", domain.ErrRateLimited, string(body))
	}

	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by embedding a single character.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.Embed(ctx, "."); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
