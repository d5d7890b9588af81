package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/brainsite/internal/session"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live thoughts until interrupted",
		Long:  "Run the live thought cycle headless and print each thought as it appears and clears.",
		RunE:  runWatch,
	}

	cmd.Flags().Duration("for", 0, "Stop after this long (default: until interrupted)")

	RootCmd.AddCommand(cmd)
}

type watchLine struct {
	Event   string `json:"event"`
	At      string `json:"at"`
	ID      string `json:"id"`
	Region  string `json:"region"`
	Content string `json:"content,omitempty"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetDuration("for")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	s, cat, err := openStore(ctx)
	if err != nil {
		return cmdErr("open store", err)
	}
	defer s.Close()

	sess := session.New(cat, session.Options{
		NotifyInterval: cfg.GetNotifyInterval(),
		NotifyDisplay:  cfg.GetNotifyDisplay(),
		Rand:           newRand(),
		Logger:         logger.Named("session"),
		Feed:           s,
	})
	defer sess.Close()
	sess.Start()
	logger.Info("watching live thoughts", zap.Duration("interval", cfg.GetNotifyInterval()))

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sess.Events():
			if !ok {
				return nil
			}
			if ev.Kind != session.ThoughtShown && ev.Kind != session.ThoughtCleared {
				continue
			}
			line := watchLine{
				Event:  ev.Kind.String(),
				At:     time.Now().UTC().Format(time.RFC3339),
				ID:     ev.Thought.ID,
				Region: ev.Thought.Region,
			}
			if ev.Kind == session.ThoughtShown {
				line.Content = ev.Thought.Content
			}
			if formatFlag == "text" {
				fmt.Fprintf(out, "%s %-15s %-14s %s\n", line.At, line.Event, line.Region, line.Content)
				continue
			}
			if err := enc.Encode(line); err != nil {
				return cmdErr("write", err)
			}
		}
	}
}
