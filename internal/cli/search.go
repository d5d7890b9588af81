package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/brainsite/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search content passages by keyword",
		Long:  "Full-text search over region, mental model and scenario text, ranked by bm25.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	cmd.Flags().String("kind", "", "Filter by kind: region, model or scenario")
	cmd.Flags().IntP("limit", "l", 10, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	s, _, err := openStore(cmd.Context())
	if err != nil {
		return cmdErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Query: query,
		Kind:  kind,
		Limit: limit,
	})
	if err != nil {
		return cmdErr("search", err)
	}

	if formatFlag == "text" {
		for _, r := range results {
			fmt.Fprintf(out, "%6.2f  %-8s %-20s %s\n", r.Score, r.Kind, r.RefID, oneLine(r.Text, 60))
		}
		return nil
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "[]")
		return nil
	}
	return printOut(out, results)
}

func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
