package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/brainsite/internal/qa"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question",
		Long:  "Ask a question. The reply points at the brain region and mental model that fit it best.",
		Args:  cobra.ArbitraryArgs,
		RunE:  runAsk,
	}

	cmd.Flags().Bool("sources", false, "Include the matched passages")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	sources, _ := cmd.Flags().GetBool("sources")
	question := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	s, cat, err := openStore(cmd.Context())
	if err != nil {
		return cmdErr("open store", err)
	}
	defer s.Close()

	asker := qa.New(cat, s, qa.Options{Rand: newRand(), Logger: logger.Named("qa")})
	ans, ok, err := asker.Ask(cmd.Context(), question)
	if err != nil {
		return cmdErr("ask", err)
	}
	if !ok {
		// Blank questions are not submitted.
		fmt.Fprintln(out, `{"ok":false}`)
		return nil
	}
	if !sources {
		ans.Sources = nil
	}

	if formatFlag == "text" {
		fmt.Fprintln(out, ans.Reply)
		return nil
	}
	return printOut(out, ans)
}
