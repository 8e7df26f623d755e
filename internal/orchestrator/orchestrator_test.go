package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelens/internal/orchestrator"
	"codelens/internal/symbol"
)

// fakeEmbedder produces deterministic low-dimensional vectors so semantic
// search behavior can be exercised without a real Ollama instance: the
// vector is just the text's length and rune-sum folded into two floats,
// which is enough to make "near-identical short functions" cluster apart
// from "long doc-heavy functions" in cosine space.
type fakeEmbedder struct {
	dim       int
	available bool
}

func (f *fakeEmbedder) Dimension() int { return f.dim }
func (f *fakeEmbedder) Available(ctx context.Context) bool { return f.available }
func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, f.dim)
		var sum int
		for _, r := range t {
			sum += int(r)
		}
		v[0] = float32(len(t))
		if f.dim > 1 {
			v[1] = float32(sum % 97)
		}
		out[i] = v
	}
	return out, nil
}

func writeProject(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		"main.go": "package main\n\nfunc main() {\n\tGreet(\"world\")\n}\n",
		"greeter.go": `package main

// Greeter sends friendly messages.
type Greeter struct {
	Name string
}

// Greet returns a greeting for name.
func Greet(name string) string {
	return "hello " + name
}
`,
		"vendor/ignored.go": "package vendor\nfunc Ignored() {}\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("vendor/\n"), 0o644))
}

func newTestIndexer(t *testing.T, embedder *fakeEmbedder) (*orchestrator.Indexer, string) {
	t.Helper()
	root := t.TempDir()
	writeProject(t, root)
	appData := t.TempDir()

	var cfg orchestrator.Config
	cfg.RootPath = root
	cfg.AppDataDir = appData
	if embedder != nil {
		cfg.Embedder = embedder
	}

	idx, err := orchestrator.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx, root
}

func TestIndexCodebaseBuildsSymbolAndFullTextIndices(t *testing.T) {
	idx, _ := newTestIndexer(t, nil)

	result, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalFiles) // vendor/ignored.go excluded by .gitignore
	assert.Greater(t, result.TotalSymbols, 0)
	assert.Contains(t, result.Languages, "go")
	assert.Equal(t, orchestrator.StateReady, idx.State())
}

func TestIndexCodebaseSkipsRebuildWhenCacheValid(t *testing.T) {
	idx, _ := newTestIndexer(t, nil)

	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)
	before, err := idx.GetIndexStats()
	require.NoError(t, err)

	result, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, before.TotalFiles, result.TotalFiles)

	after, err := idx.GetIndexStats()
	require.NoError(t, err)
	// Nothing on disk changed, so the second call must have served the
	// existing in-memory snapshot rather than rebuilding: IndexedAt, which
	// only a real rebuild advances, stays exactly as it was.
	assert.Equal(t, before.IndexedAt, after.IndexedAt)
}

func TestIndexCodebaseRebuildsWhenMtimeChanges(t *testing.T) {
	idx, root := newTestIndexer(t, nil)

	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)
	before, err := idx.GetIndexStats()
	require.NoError(t, err)

	greeterPath := filepath.Join(root, "greeter.go")
	updated := `package main

// Greeter sends friendly messages.
type Greeter struct {
	Name string
}

// Greet returns a greeting for name.
func Greet(name string) string {
	return "hello " + name
}

// Farewell returns a goodbye for name.
func Farewell(name string) string {
	return "bye " + name
}
`
	require.NoError(t, os.WriteFile(greeterPath, []byte(updated), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(greeterPath, future, future))

	result, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Greater(t, result.TotalSymbols, 0)

	after, err := idx.GetIndexStats()
	require.NoError(t, err)
	assert.True(t, after.IndexedAt.After(before.IndexedAt))

	syms, err := idx.GetFileSymbols("greeter.go")
	require.NoError(t, err)
	names := make([]string, 0, len(syms))
	for _, s := range syms {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Farewell")
}

func TestIndexCodebaseForceRebuildIgnoresValidCache(t *testing.T) {
	idx, _ := newTestIndexer(t, nil)

	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)
	before, err := idx.GetIndexStats()
	require.NoError(t, err)

	_, err = idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{ForceRebuild: true})
	require.NoError(t, err)

	after, err := idx.GetIndexStats()
	require.NoError(t, err)
	assert.True(t, after.IndexedAt.After(before.IndexedAt))
}

func TestIndexCodebaseRejectsMissingRoot(t *testing.T) {
	appData := t.TempDir()
	cfg := orchestrator.Config{RootPath: filepath.Join(t.TempDir(), "does-not-exist"), AppDataDir: appData}
	idx, err := orchestrator.New(cfg)
	require.NoError(t, err)
	defer idx.Close()

	_, err = idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	assert.Error(t, err)
	assert.Equal(t, orchestrator.StateInvalidated, idx.State())
}

func TestQueryIndexRejectedBeforeReady(t *testing.T) {
	idx, _ := newTestIndexer(t, nil)
	_, err := idx.QueryIndex(context.Background(), symbol.Query{Raw: "Greet"}, nil)
	assert.Error(t, err)
}

func TestQueryIndexFindsExactSymbol(t *testing.T) {
	idx, _ := newTestIndexer(t, nil)
	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)

	results, err := idx.QueryIndex(context.Background(), symbol.Query{Raw: "Greet"}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Greet", results[0].Symbol.Name)
}

func TestGetFileSymbolsReturnsOnlyThatFilesSymbols(t *testing.T) {
	idx, _ := newTestIndexer(t, nil)
	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)

	syms, err := idx.GetFileSymbols("greeter.go")
	require.NoError(t, err)
	for _, s := range syms {
		assert.Equal(t, "greeter.go", s.FilePath)
	}
	assert.NotEmpty(t, syms)
}

func TestGetFileSymbolsUnknownPathErrors(t *testing.T) {
	idx, _ := newTestIndexer(t, nil)
	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)

	_, err = idx.GetFileSymbols("nope.go")
	assert.Error(t, err)
}

func TestSearchFilesMatchesComponentPrefix(t *testing.T) {
	idx, _ := newTestIndexer(t, nil)
	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)

	paths, err := idx.SearchFiles("greeter", 10)
	require.NoError(t, err)
	assert.Contains(t, paths, "greeter.go")
}

func TestGetIndexStatsReportsFileAndLanguageCounts(t *testing.T) {
	idx, root := newTestIndexer(t, nil)
	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)

	stats, err := idx.GetIndexStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
	assert.Equal(t, 2, stats.Languages["go"])
	assert.Equal(t, root, stats.RootPath)
}

func TestSearchSemanticDegradesGracefullyWithoutEmbedder(t *testing.T) {
	idx, _ := newTestIndexer(t, nil)
	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)

	_, err = idx.SearchSemantic(context.Background(), "greeting helper", 5)
	assert.Error(t, err)
}

func TestIndexCodebaseWithEmbedderPopulatesSemanticPath(t *testing.T) {
	embedder := &fakeEmbedder{dim: 8, available: true}
	idx, _ := newTestIndexer(t, embedder)

	result, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)

	hits, err := idx.SearchSemantic(context.Background(), "hello world greeting", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, hits)
}

func TestQueryIndexFusesAcrossIndicesWithEmbedder(t *testing.T) {
	embedder := &fakeEmbedder{dim: 8, available: true}
	idx, _ := newTestIndexer(t, embedder)
	_, err := idx.IndexCodebase(context.Background(), orchestrator.IndexOptions{})
	require.NoError(t, err)

	results, err := idx.QueryIndex(context.Background(), symbol.Query{Raw: "how does greeting work"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}
