package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/pluginkit/plugclone/internal/manifest"
	"github.com/pluginkit/plugclone/internal/project"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info [dir]",
	Short: "Show how a cloned project was created",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		p, err := project.Open(dir)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return nil
		}

		rec, err := manifest.LoadRecord(p.RecordPath())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(errOut, "%s has no clone record (%s); clone with --record to write one\n", p.Root, p.RecordFile)
				return nil
			}
			fmt.Fprintf(errOut, "error: %v\n", err)
			return nil
		}

		fmt.Fprintf(out, "name:        %s\n", rec.Name)
		fmt.Fprintf(out, "source:      %s\n", rec.Source)
		fmt.Fprintf(out, "destination: %s\n", rec.Destination)
		fmt.Fprintf(out, "created:     %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		if rec.ToolVersion != "" {
			fmt.Fprintf(out, "tool:        %s\n", rec.ToolVersion)
		}
		fmt.Fprintf(out, "uida:        %s\n", rec.UIDs["uida"])
		fmt.Fprintf(out, "uidb:        %s\n", rec.UIDs["uidb"])

		keys := make([]string, 0, len(rec.Attributes))
		for k := range rec.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%-12s %s\n", k+":", rec.Attributes[k])
		}
		return nil
	},
}
