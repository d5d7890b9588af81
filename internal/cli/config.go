package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/brainsite/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  "Write the default configuration to --config, $BRAINSITE_CONFIG or ~/.brainsite/config.yaml.",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	cmd.AddCommand(initCmd, showCmd)
	RootCmd.AddCommand(cmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := resolveConfigPath()

	if _, err := os.Stat(path); err == nil && !force {
		return cmdErr("config init", fmt.Errorf("%s already exists (use --force to overwrite)", path))
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return cmdErr("config init", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q}`+"\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return cmdErr("config show", err)
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}
