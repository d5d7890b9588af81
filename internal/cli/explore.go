package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rcliao/brainsite/internal/qa"
	"github.com/rcliao/brainsite/internal/session"
	"github.com/rcliao/brainsite/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Open the interactive microsite",
		Long:  "Open the full-screen microsite. Mouse hover and clicks work in terminals that report motion.",
		RunE:  runExplore,
	}

	cmd.Flags().Bool("no-live", false, "Disable live thought notifications")
	cmd.Flags().String("style", "dark", "Markdown style: dark, light, notty, dracula")

	RootCmd.AddCommand(cmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	// The root command runs this too and has no --no-live or --style.
	noLive, _ := cmd.Flags().GetBool("no-live")
	style, _ := cmd.Flags().GetString("style")

	s, cat, err := openStore(cmd.Context())
	if err != nil {
		return cmdErr("open store", err)
	}
	defer s.Close()

	sess := session.New(cat, session.Options{
		RippleWindow:   cfg.GetRippleWindow(),
		NotifyInterval: cfg.GetNotifyInterval(),
		NotifyDisplay:  cfg.GetNotifyDisplay(),
		Rand:           newRand(),
		Logger:         logger.Named("session"),
		Feed:           s,
	})
	defer sess.Close()
	if !noLive {
		sess.Start()
	}

	asker := qa.New(cat, s, qa.Options{Rand: newRand(), Logger: logger.Named("qa")})
	m, err := tui.New(sess, asker, s, tui.Options{Logger: logger.Named("tui"), MarkdownStyle: style})
	if err != nil {
		return cmdErr("build ui", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return cmdErr("run ui", err)
	}
	return nil
}
