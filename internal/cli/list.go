package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/brainsite/internal/reltime"
	"github.com/rcliao/brainsite/internal/store"
)

var listTables = []string{"regions", "models", "scenarios", "plans", "thoughts"}

func init() {
	cmd := &cobra.Command{
		Use:       "list <table>",
		Short:     "List a content table",
		Long:      "List one content table: regions, models, scenarios, plans or thoughts.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: listTables,
		RunE:      runList,
	}

	cmd.Flags().String("category", "", "Filter models or scenarios by category")
	cmd.Flags().String("difficulty", "", "Filter scenarios by difficulty")
	cmd.Flags().StringP("region", "r", "", "Filter thoughts by region")
	cmd.Flags().String("type", "", "Filter thoughts by type")
	cmd.Flags().IntP("limit", "l", 20, "Max thoughts")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	region, _ := cmd.Flags().GetString("region")
	typ, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	s, _, err := openStore(cmd.Context())
	if err != nil {
		return cmdErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	switch args[0] {
	case "regions":
		regions, err := s.ListRegions(ctx)
		if err != nil {
			return cmdErr("list regions", err)
		}
		if formatFlag == "text" {
			for _, r := range regions {
				fmt.Fprintf(out, "%-14s %-22s %-18s %s\n", r.ID, r.Name, r.Area, r.Color)
			}
			return nil
		}
		return printOut(out, regions)
	case "models":
		models, err := s.ListMentalModels(ctx, category)
		if err != nil {
			return cmdErr("list models", err)
		}
		if formatFlag == "text" {
			for _, m := range models {
				fmt.Fprintf(out, "%-22s %-22s %s\n", m.ID, m.Name, m.Category)
			}
			return nil
		}
		return printOut(out, models)
	case "scenarios":
		scenarios, err := s.ListScenarios(ctx, store.ScenarioFilter{Category: category, Difficulty: difficulty})
		if err != nil {
			return cmdErr("list scenarios", err)
		}
		if formatFlag == "text" {
			for _, sc := range scenarios {
				fmt.Fprintf(out, "%-3d %-28s %-12s %s\n", sc.ID, sc.Title, sc.Category, sc.Difficulty)
			}
			return nil
		}
		return printOut(out, scenarios)
	case "plans":
		plans, err := s.ListPlans(ctx)
		if err != nil {
			return cmdErr("list plans", err)
		}
		if formatFlag == "text" {
			for _, p := range plans {
				star := " "
				if p.Highlighted {
					star = "*"
				}
				fmt.Fprintf(out, "%s %-10s %-12s %s\n", star, p.ID, p.Price, p.Subtitle)
			}
			return nil
		}
		return printOut(out, plans)
	case "thoughts":
		thoughts, err := s.ListThoughts(ctx, store.ListThoughtsParams{Region: region, Type: typ, Limit: limit})
		if err != nil {
			return cmdErr("list thoughts", err)
		}
		if formatFlag == "text" {
			now := time.Now()
			for _, th := range thoughts {
				fmt.Fprintf(out, "%-10s %-12s %s\n", reltime.Format(th.Timestamp, now), th.Region, th.Content)
			}
			return nil
		}
		return printOut(out, thoughts)
	default:
		return cmdErr("list", fmt.Errorf("unknown table %q (valid: %v)", args[0], listTables))
	}
}
