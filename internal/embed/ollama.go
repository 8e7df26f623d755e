package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"codelens/internal/errs"
)

// DefaultDimension matches the all-minilm embedding model: 384 floats,
// the dimension the vector index and its usearch-derived HNSW parameters
// (see internal/vectorindex) are sized for.
const DefaultDimension = 384

// OllamaGenerator calls a local Ollama instance's /api/embed endpoint,
// adapted from the teacher's internal/embedder.OllamaEmbedder with an
// added Available probe and context-aware requests.
type OllamaGenerator struct {
	baseURL   string
	model     string
	dimension int
	client    *http.Client
}

func NewOllamaGenerator(baseURL, model string, dimension int) *OllamaGenerator {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &OllamaGenerator{
		baseURL:   baseURL,
		model:     model,
		dimension: dimension,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *OllamaGenerator) Dimension() int { return g.dimension }

func (g *OllamaGenerator) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (g *OllamaGenerator) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embedRequest{Model: g.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errs.New(errs.KindTransient, "embed.Embed", g.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, errs.New(errs.KindTransient, "embed.Embed", g.baseURL,
			fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(respBody)))
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}
	for _, v := range result.Embeddings {
		if len(v) != g.dimension {
			return nil, errs.New(errs.KindInput, "embed.Embed", "",
				fmt.Errorf("%w: got %d, want %d", errs.ErrDimensionMismatch, len(v), g.dimension))
		}
	}
	return result.Embeddings, nil
}
