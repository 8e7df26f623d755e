package embed_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelens/internal/embed"
)

func TestOllamaGeneratorEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		vecs := make([][]float32, len(req.Input))
		for i := range vecs {
			vecs[i] = make([]float32, 4)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": vecs})
	}))
	defer srv.Close()

	gen := embed.NewOllamaGenerator(srv.URL, "all-minilm", 4)
	out, err := gen.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, out[0], 4)
}

func TestOllamaGeneratorAvailableFalseOnUnreachable(t *testing.T) {
	gen := embed.NewOllamaGenerator("http://127.0.0.1:0", "all-minilm", 4)
	assert.False(t, gen.Available(context.Background()))
}

func TestOllamaGeneratorDimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{{1, 2}}})
	}))
	defer srv.Close()

	gen := embed.NewOllamaGenerator(srv.URL, "all-minilm", 4)
	_, err := gen.Embed(context.Background(), []string{"a"})
	assert.Error(t, err)
}
