package cli

import (
	"fmt"

	"github.com/pluginkit/plugclone/internal/branding"
	"github.com/pluginkit/plugclone/internal/config"
	"github.com/pluginkit/plugclone/internal/logging"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each file operation to stderr")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` copies an audio plugin template project to a new directory and replaces
the placeholder tokens in its source files (plugin name, company, manufacturer
and subtype codes, URL, email, and class identifiers) with real values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			if err := logging.EnableVerbose(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: verbose logging unavailable: %v\n", err)
			}
		}
		if err := config.Load(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}
