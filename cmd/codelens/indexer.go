package main

import (
	"codelens/internal/embed"
	"codelens/internal/orchestrator"
)

// buildIndexer loads the host config and wires an orchestrator.Indexer
// from it, including an Ollama-backed embedder when embedding is enabled.
func buildIndexer() (*orchestrator.Indexer, error) {
	cfg, err := loadHostConfig(configPath)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg)

	var generator embed.Generator
	if cfg.Embed.Enabled {
		generator = embed.NewOllamaGenerator(cfg.Embed.BaseURL, cfg.Embed.Model, cfg.Embed.Dimension)
	}

	return orchestrator.New(orchestrator.Config{
		RootPath:       cfg.RootPath,
		AppDataDir:     cfg.DataDir,
		Embedder:       generator,
		Workers:        cfg.Workers,
		EmbedBatchSize: cfg.Embed.BatchSize,
	})
}
