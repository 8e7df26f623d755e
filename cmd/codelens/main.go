// Command codelens is a thin host exercising the orchestrator's public
// surface end to end: index a codebase, query it, and report stats. It
// is a demonstration CLI, not the library boundary — everything it does
// is reachable through internal/orchestrator directly by any other host.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "codelens",
	Short: "Local hybrid code search: symbol, full-text, and semantic indices",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a codelens.yaml config file")
}

func setupLogging(cfg *hostConfig) {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}
