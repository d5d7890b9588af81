package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every content table",
		Long:  "Export regions, mental models, scenarios, plans and thoughts. Use --format yaml for the authoring format.",
		RunE:  runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, _, err := openStore(cmd.Context())
	if err != nil {
		return cmdErr("open store", err)
	}
	defer s.Close()

	all, err := s.ExportAll(cmd.Context())
	if err != nil {
		return cmdErr("export", err)
	}

	return printOut(cmd.OutOrStdout(), all)
}
