package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"xginit/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Version output needs no configuration or hardware.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				return showJSONVersion(cmd)
			}
			cmd.Printf("xginit %s\n", version.GetShortVersion())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version information as JSON")
	return cmd
}

func showJSONVersion(cmd *cobra.Command) error {
	info := version.GetBuildInfo()
	data := map[string]interface{}{
		"version":    version.GetShortVersion(),
		"git_commit": info.GitCommit,
		"build_date": info.BuildDate,
		"go_version": info.GoVersion,
		"platform":   fmt.Sprintf("%s/%s", info.Platform, info.Architecture),
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
