package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/brainsite/internal/qa"
	"github.com/rcliao/brainsite/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "decide <scenario-id> [decision]",
		Short: "Walk a scenario's framework against your decision",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDecide,
	}

	RootCmd.AddCommand(cmd)
}

func runDecide(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return cmdErr("decide", fmt.Errorf("scenario ids are integers: %w", err))
	}

	cat, err := loadCatalog()
	if err != nil {
		return cmdErr("load content", err)
	}
	sc, ok := cat.Scenario(id)
	if !ok {
		return cmdErr("decide", fmt.Errorf("scenario %d: %w", id, store.ErrNotFound))
	}

	out := cmd.OutOrStdout()
	d, ok := qa.Decide(sc, strings.Join(args[1:], " "))
	if !ok {
		fmt.Fprintln(out, `{"ok":false}`)
		return nil
	}

	if formatFlag == "text" {
		for _, st := range d.Steps {
			mark := " "
			if st.Addressed {
				mark = "x"
			}
			fmt.Fprintf(out, "[%s] %d. %s\n", mark, st.Index, st.Text)
		}
		fmt.Fprintln(out, d.Summary)
		return nil
	}
	return printOut(out, d)
}
