package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/brainsite/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <table> <id>",
		Short: "Show one record",
		Long:  "Show one region, model, scenario, plan or thought by id. Regions can be joined with a view's geometry.",
		Args:  cobra.ExactArgs(2),
		RunE:  runShow,
	}

	cmd.Flags().String("view", "", "Join a region with this view's geometry (header or explorer)")

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	view, _ := cmd.Flags().GetString("view")
	table, id := args[0], args[1]
	out := cmd.OutOrStdout()

	s, cat, err := openStore(cmd.Context())
	if err != nil {
		return cmdErr("open store", err)
	}
	defer s.Close()

	switch table {
	case "region", "regions":
		if view != "" {
			rv, err := cat.RegionView(view, id)
			if err != nil {
				return cmdErr("show region", err)
			}
			return printOut(out, rv)
		}
		r, ok := cat.Region(id)
		if !ok {
			return cmdErr("show region", fmt.Errorf("%s: %w", id, store.ErrNotFound))
		}
		return printOut(out, r)
	case "model", "models":
		m, ok := cat.MentalModel(id)
		if !ok {
			return cmdErr("show model", fmt.Errorf("%s: %w", id, store.ErrNotFound))
		}
		return printOut(out, m)
	case "scenario", "scenarios":
		n, err := strconv.Atoi(id)
		if err != nil {
			return cmdErr("show scenario", fmt.Errorf("scenario ids are integers: %w", err))
		}
		sc, ok := cat.Scenario(n)
		if !ok {
			return cmdErr("show scenario", fmt.Errorf("%d: %w", n, store.ErrNotFound))
		}
		return printOut(out, sc)
	case "plan", "plans":
		p, ok := cat.Plan(id)
		if !ok {
			return cmdErr("show plan", fmt.Errorf("%s: %w", id, store.ErrNotFound))
		}
		return printOut(out, p)
	case "thought", "thoughts":
		th, err := s.Thought(cmd.Context(), id)
		if err != nil {
			return cmdErr("show thought", err)
		}
		return printOut(out, th)
	default:
		return cmdErr("show", fmt.Errorf("unknown table %q", table))
	}
}
