package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/brainsite/internal/catalog"
)

func init() {
	cmd := &cobra.Command{
		Use:   "validate <dir>",
		Short: "Validate a content directory",
		Long:  "Load every *.yaml file in dir and check ids, colors, view geometry coverage and the notification pool.",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	RootCmd.AddCommand(cmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cat, err := catalog.LoadDir(args[0], time.Now())
	if err != nil {
		return cmdErr("validate", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"regions":%d,"mental_models":%d,"scenarios":%d,"plans":%d,"thoughts":%d,"views":%d}`+"\n",
		len(cat.Regions), len(cat.MentalModels), len(cat.Scenarios), len(cat.Plans), len(cat.Thoughts), len(cat.Views()))
	return nil
}
