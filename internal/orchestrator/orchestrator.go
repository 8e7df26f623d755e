// Package orchestrator ties the syntax parser and the three coordinated
// indices together into codelens's public command surface: walk a
// codebase, populate every index, answer queries against whichever index
// (or fused combination) a query calls for, and persist/restore the
// result across restarts. Adapted from the teacher's internal/index.Indexer
// plus internal/index/pipeline.go's five-stage channel pipeline,
// generalized from a single SQLite+vector store to three coordinated
// indices and the Empty->Loading->Ready->Invalidated state machine.
package orchestrator

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"codelens/internal/embed"
	"codelens/internal/errs"
	"codelens/internal/fulltext"
	"codelens/internal/langparser"
	"codelens/internal/persist"
	"codelens/internal/symbol"
	"codelens/internal/symbolindex"
	"codelens/internal/vectorindex"
)

// State is the lifecycle stage of one Indexer's index. Queries are
// rejected unless the state is Ready.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StateInvalidated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StateInvalidated:
		return "Invalidated"
	default:
		return "Empty"
	}
}

// Config configures one Indexer. The host builds and owns this; the
// orchestrator itself reads no environment variables.
type Config struct {
	RootPath       string
	AppDataDir     string
	Embedder       embed.Generator // optional; nil disables the semantic path
	Workers        int
	EmbedBatchSize int
}

// IndexOptions modifies a single IndexCodebase call. The two fields
// together select one of spec's two cache policies: leaving both false is
// "full-rebuild" (the default) — a stale cache is discarded and the
// codebase re-walked and re-parsed, but a still-valid cache is left alone.
// AcceptStale selects "accept-stale" — a stale cache is kept and served
// with a warning instead of triggering a rebuild. ForceRebuild always
// discards and rebuilds regardless of cache validity.
type IndexOptions struct {
	ForceRebuild bool
	AcceptStale  bool
}

// IndexResult reports the outcome of one IndexCodebase call.
type IndexResult struct {
	Success      bool
	TotalFiles   int
	TotalSymbols int
	Languages    []string
	DurationMs   int64
	Errors       []string
}

// Stats is the response to GetIndexStats.
type Stats struct {
	TotalFiles int
	Languages  map[string]int
	RootPath   string
	IndexedAt  time.Time
}

// Indexer is the orchestrator's public surface: the pipeline that builds
// the three indices and the query dispatch across them.
type Indexer struct {
	cfg      Config
	registry *langparser.Registry
	parser   *langparser.Parser
	layout   persist.Layout

	symbolIdx *symbolindex.Index
	fullText  *fulltext.Index
	vecStore  *persist.VectorStore

	log *slog.Logger

	mu        sync.RWMutex
	state     State
	codebase  *symbol.CodebaseIndex
	vectorIdx *vectorindex.Index
	languages map[string]int
	indexedAt time.Time

	building atomic.Bool
}

// New creates an Indexer for cfg.RootPath, attempting to restore a valid
// cache from disk before returning. A missing or stale cache leaves the
// Indexer in StateEmpty; callers must call IndexCodebase before querying.
func New(cfg Config) (*Indexer, error) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = 100
	}

	registry := langparser.NewDefaultRegistry()
	layout := persist.LayoutFor(cfg.AppDataDir, cfg.RootPath)
	if err := layout.EnsureDir(); err != nil {
		return nil, errs.New(errs.KindFatal, "orchestrator.New", layout.Dir, err)
	}

	vecStore, err := persist.OpenVectorStore(layout.Vectors)
	if err != nil {
		return nil, err
	}

	dimension := embed.DefaultDimension
	if cfg.Embedder != nil {
		dimension = cfg.Embedder.Dimension()
	}

	idx := &Indexer{
		cfg:       cfg,
		registry:  registry,
		parser:    langparser.NewParser(registry),
		layout:    layout,
		symbolIdx: symbolindex.New(),
		fullText:  fulltext.New(),
		vecStore:  vecStore,
		vectorIdx: vectorindex.New(vectorindex.DefaultConfig(dimension)),
		languages: make(map[string]int),
		log:       slog.Default().With("component", "orchestrator"),
	}

	if err := idx.tryLoadCache(dimension); err != nil {
		idx.log.Warn("cache load skipped", "error", err)
	}

	return idx, nil
}

// State reports the current lifecycle stage.
func (idx *Indexer) State() State {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.state
}

func (idx *Indexer) setState(s State) {
	idx.mu.Lock()
	idx.state = s
	idx.mu.Unlock()
}

// Close releases the vector store's underlying database handle.
func (idx *Indexer) Close() error {
	return idx.vecStore.Close()
}
