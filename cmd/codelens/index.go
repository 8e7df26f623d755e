package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codelens/internal/orchestrator"
)

var (
	forceRebuild bool
	acceptStale  bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Walk the configured root and (re)build the symbol, full-text, and vector indices",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := buildIndexer()
		if err != nil {
			return err
		}
		defer idx.Close()

		result, err := idx.IndexCodebase(cmd.Context(), orchestrator.IndexOptions{
			ForceRebuild: forceRebuild,
			AcceptStale:  acceptStale,
		})
		if err != nil {
			return err
		}

		fmt.Printf("indexed %d files, %d symbols, languages=%v, took %dms\n",
			result.TotalFiles, result.TotalSymbols, result.Languages, result.DurationMs)
		for _, e := range result.Errors {
			fmt.Printf("  warning: %s\n", e)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVar(&forceRebuild, "force", false, "discard any cache and rebuild from scratch regardless of validity")
	indexCmd.Flags().BoolVar(&acceptStale, "accept-stale", false, "serve a stale cache with a warning instead of rebuilding")
	rootCmd.AddCommand(indexCmd)
}
