// Package embed generates the embedding vectors the vector index searches
// over, behind a Generator interface with an availability probe so the
// pipeline orchestrator can run in symbol/full-text-only mode when no
// embedding backend is reachable, per the "optional external resource"
// guidance in the design notes.
package embed

import "context"

// Generator turns text into fixed-dimension embedding vectors.
type Generator interface {
	// Embed returns one vector per input text, same order, same length.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension is the vector length this generator produces.
	Dimension() int
	// Available reports whether the backend is currently reachable. The
	// orchestrator calls this once before a build, not per batch.
	Available(ctx context.Context) bool
}
