package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"codelens/internal/hybrid"
	"codelens/internal/symbol"
)

var (
	queryLimit    int
	queryKind     string
	querySemantic bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search the index with hybrid symbol/full-text/semantic ranking",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := buildIndexer()
		if err != nil {
			return err
		}
		defer idx.Close()

		text := strings.Join(args, " ")

		if querySemantic {
			hits, err := idx.SearchSemantic(cmd.Context(), text, queryLimit)
			if err != nil {
				return err
			}
			printResults(hits)
			return nil
		}

		q := symbol.Query{Raw: text, Kind: parseKind(queryKind), Limit: queryLimit}
		hits, err := idx.QueryIndex(cmd.Context(), q, nil)
		if err != nil {
			return err
		}
		printResults(hits)
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryLimit, "limit", 20, "maximum number of results")
	queryCmd.Flags().StringVar(&queryKind, "kind", "", "restrict symbol-index matches to a kind (function, method, class, struct, interface, enum, constant, variable, import, export)")
	queryCmd.Flags().BoolVar(&querySemantic, "semantic", false, "search the vector index only, bypassing RRF fusion")
	rootCmd.AddCommand(queryCmd)
}

func parseKind(s string) symbol.Kind {
	switch strings.ToLower(s) {
	case "function":
		return symbol.KindFunction
	case "method":
		return symbol.KindMethod
	case "class":
		return symbol.KindClass
	case "struct":
		return symbol.KindStruct
	case "interface":
		return symbol.KindInterface
	case "enum":
		return symbol.KindEnum
	case "constant":
		return symbol.KindConstant
	case "variable":
		return symbol.KindVariable
	case "import":
		return symbol.KindImport
	case "export":
		return symbol.KindExport
	default:
		return symbol.KindUnknown
	}
}

func printResults(results []hybrid.Result) {
	for _, r := range results {
		s := r.Symbol
		fmt.Printf("%.4f  %-8s %s:%d-%d  %s\n", r.Score, s.Kind, s.FilePath, s.StartLine, s.EndLine, s.Name)
	}
}
