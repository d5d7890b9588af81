package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List mental model and scenario categories",
		RunE:  runCategories,
	}

	RootCmd.AddCommand(cmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	s, _, err := openStore(cmd.Context())
	if err != nil {
		return cmdErr("open store", err)
	}
	defer s.Close()

	rows, err := s.Categories(cmd.Context())
	if err != nil {
		return cmdErr("list categories", err)
	}

	out := cmd.OutOrStdout()
	if formatFlag == "text" {
		for _, c := range rows {
			fmt.Fprintf(out, "%-14s %-18s %d\n", c.Table, c.Category, c.Count)
		}
		return nil
	}
	return printOut(out, rows)
}
