package cli

import (
	"fmt"

	"github.com/pluginkit/plugclone/internal/manifest"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <info.yaml>",
	Short: "Check a plugin info file before using it with --from",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		path := args[0]
		fmt.Fprintf(out, "Info file validation: %s\n", path)

		result, err := manifest.ValidateFile(path)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return fmt.Errorf("info file validation failed: %w", err)
		}

		if result.Valid {
			info, err := manifest.ParseInfoFile(path)
			if err != nil {
				fmt.Fprintf(out, "  [ OK ] Valid info file\n")
				return nil
			}
			fmt.Fprintf(out, "  [ OK ] Valid info file: %d attribute(s)\n", len(info))
			for _, job := range info.Jobs() {
				fmt.Fprintf(out, "    %s = %q\n", job.Attribute, job.Value)
			}
			return nil
		}

		fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Path != "" {
				fmt.Fprintf(out, "    - %s: %s\n", issue.Path, issue.Message)
			} else {
				fmt.Fprintf(out, "    - %s\n", issue.Message)
			}
		}
		return fmt.Errorf("info file %s has %d validation issue(s)", path, len(result.Issues))
	},
}
