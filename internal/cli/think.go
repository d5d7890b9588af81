package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/brainsite/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "think [content]",
		Short: "Add a thought to the feed",
		Long: "Add a thought to the feed. Content can be a positional arg or piped via stdin.\n" +
			"With the default in-memory store the thought lives only for this run; set store.path to keep it.",
		RunE: runThink,
	}

	cmd.Flags().StringP("region", "r", "", "Region id (required)")
	cmd.Flags().String("type", "insight", "Type: insight, reflection, question, lesson")
	cmd.Flags().Int("engagement", 0, "Engagement count")

	cmd.MarkFlagRequired("region")

	RootCmd.AddCommand(cmd)
}

func runThink(cmd *cobra.Command, args []string) error {
	region, _ := cmd.Flags().GetString("region")
	typ, _ := cmd.Flags().GetString("type")
	engagement, _ := cmd.Flags().GetInt("engagement")

	// Get content: positional arg first, then check stdin
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return cmdErr("read stdin", err)
			}
			content = string(b)
		}
	}

	if strings.TrimSpace(content) == "" {
		return cmdErr("think", fmt.Errorf("content is required (positional arg or stdin)"))
	}

	s, cat, err := openStore(cmd.Context())
	if err != nil {
		return cmdErr("open store", err)
	}
	defer s.Close()

	if _, ok := cat.Region(region); !ok {
		return cmdErr("think", fmt.Errorf("unknown region %q", region))
	}

	th, err := s.AddThought(cmd.Context(), store.AddThoughtParams{
		Content:    content,
		Type:       typ,
		Engagement: engagement,
		Region:     region,
	})
	if err != nil {
		return cmdErr("think", err)
	}

	b, _ := json.Marshal(th)
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
