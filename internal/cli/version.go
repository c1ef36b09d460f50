package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/branding"
	"github.com/pluginkit/plugclone/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the --json shape of the version command.
type versionInfo struct {
	Version      string   `json:"version"`
	Commit       string   `json:"commit"`
	Date         string   `json:"date"`
	Repo         string   `json:"repo"`
	RecordFormat string   `json:"record_format"`
	Attributes   []string `json:"attributes"`
}

func currentVersion() versionInfo {
	attrs := attribute.All()
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = string(a)
	}
	return versionInfo{
		Version:      buildVersion,
		Commit:       buildCommit,
		Date:         buildDate,
		Repo:         branding.GitHubRepo(),
		RecordFormat: manifest.RecordFormat,
		Attributes:   names,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, buildVersion)
			return nil
		}

		info := currentVersion()
		if versionJSON {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Fprintf(out, "  clone record format: %s\n", info.RecordFormat)
		fmt.Fprintf(out, "  attributes: %s\n", strings.Join(info.Attributes, ", "))
		return nil
	},
}
