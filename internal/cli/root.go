// Package cli implements the brainsite CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/config"
	"github.com/rcliao/brainsite/internal/logging"
	"github.com/rcliao/brainsite/internal/store"
)

var (
	configPath string
	formatFlag string
	verbose    bool

	cfg    *config.Config
	logger = zap.NewNop()
)

// RootCmd is the top-level command. Without a subcommand it opens the
// interactive explorer.
var RootCmd = &cobra.Command{
	Use:   "brainsite",
	Short: "An interactive brain you can explore from the terminal",
	Long: "A personal microsite in a single binary: hover the regions of my brain, ask questions,\n" +
		"walk through decision scenarios and watch live thoughts. Content is embedded YAML,\n" +
		"served from an in-memory SQLite store.",
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runExplore,
}

func init() {
	RootCmd.PersistentPreRunE = setup
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $BRAINSITE_CONFIG or ~/.brainsite/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json, yaml or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	switch formatFlag {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("invalid format %q (valid: json, yaml, text)", formatFlag)
	}

	path := resolveConfigPath()
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = c

	l, err := logging.New(cfg.Logging, logging.Options{Verbose: verbose, Interactive: interactive(cmd)})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logger = l
	logger.Debug("config loaded", zap.String("path", path), zap.String("store", cfg.Store.Path))
	return nil
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

// interactive reports whether cmd takes over the terminal.
func interactive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "explore"
}

func loadCatalog() (*catalog.Catalog, error) {
	now := time.Now()
	if cfg.Content.Dir != "" {
		return catalog.LoadDir(cfg.Content.Dir, now)
	}
	return catalog.Default(now)
}

// openStore opens the configured store. An in-memory or empty store is
// seeded from the catalog.
func openStore(ctx context.Context) (*store.SQLiteStore, *catalog.Catalog, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, nil, fmt.Errorf("load content: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}

	st, err := s.Stats(ctx, cfg.Store.Path)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	if st.Regions == 0 {
		if err := s.Seed(ctx, cat); err != nil {
			s.Close()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		logger.Debug("store seeded", zap.Int("regions", len(cat.Regions)))
	}
	return s, cat, nil
}

func newRand() *rand.Rand {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// printOut writes v to w as JSON or YAML. Text output falls back to JSON for
// commands without a text form.
func printOut(w io.Writer, v interface{}) error {
	if formatFlag == "yaml" {
		b, err := yaml.Marshal(v)
		if err != nil {
			return cmdErr("encode yaml", err)
		}
		_, err = w.Write(b)
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return cmdErr("encode json", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// cmdErr logs a failed operation and wraps err for cobra to report.
func cmdErr(op string, err error) error {
	logger.Debug("command failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
