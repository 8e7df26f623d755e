package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report how many files the current index covers, per language",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := buildIndexer()
		if err != nil {
			return err
		}
		defer idx.Close()

		stats, err := idx.GetIndexStats()
		if err != nil {
			return err
		}

		fmt.Printf("root:    %s\n", stats.RootPath)
		fmt.Printf("files:   %d\n", stats.TotalFiles)
		fmt.Printf("indexed: %s\n", stats.IndexedAt.Format("2006-01-02 15:04:05"))
		fmt.Println("languages:")

		langs := make([]string, 0, len(stats.Languages))
		for l := range stats.Languages {
			langs = append(langs, l)
		}
		sort.Strings(langs)
		for _, l := range langs {
			fmt.Printf("  %-12s %d\n", l, stats.Languages[l])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
