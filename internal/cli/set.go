package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/manifest"
	"github.com/pluginkit/plugclone/internal/project"
	"github.com/pluginkit/plugclone/internal/substitute"
	"github.com/spf13/cobra"
)

const setUsage = "usage: setPluginInfo <attribute> <stringValue>"

var (
	setDir      string
	setInfoFile string
)

func init() {
	setCmd.Flags().StringVar(&setDir, "dir", "", "Project to modify (default: current directory)")
	setCmd.Flags().StringVar(&setInfoFile, "from", "", "YAML file with attribute values to apply instead of arguments")
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:     "set <attribute> <value>",
	Aliases: []string{"setPluginInfo"},
	Short:   "Replace one attribute's placeholders in a project",
	Long: `Replace the placeholder tokens of one attribute in the project's target files.

Attributes: name, company, mfgr, subtype, url, email, uida, uidb.
For name and company, the lowercase placeholder receives the lowercased value.
Placeholders that were already replaced are not touched again.

Examples:
  plugclone set name Aalto
  plugclone set --dir ~/plugins/aalto company "Madrona Labs"
  plugclone set --from plugin-info.yaml`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		var jobs []substitute.Job
		switch {
		case setInfoFile != "" && len(args) == 0:
			info, err := manifest.ParseInfoFile(setInfoFile)
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return nil
			}
			jobs = info.Jobs()
		case setInfoFile == "" && len(args) == 2:
			jobs = []substitute.Job{{Attribute: attribute.Attribute(args[0]), Value: args[1]}}
		default:
			fmt.Fprintln(out, setUsage)
			return nil
		}

		dir := setDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
			dir = wd
		}
		p, err := project.Open(dir)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return nil
		}

		rep := newReporter(out, errOut)
		fmt.Fprintln(out, "project:", p.Root)
		for _, job := range jobs {
			fmt.Fprintf(out, "%s -> %s\n", job.Attribute, job.Value)
			res, err := substitute.Apply(p, job.Attribute, job.Value)
			if errors.Is(err, attribute.ErrUnknownAttribute) {
				rep.unknownAttribute(string(job.Attribute))
				return nil
			}
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return nil
			}
			rep.substitution(res)
			if len(res.Replaced) == 0 {
				fmt.Fprintf(out, "  no %s placeholders left\n", job.Attribute)
				continue
			}
			fmt.Fprintf(out, "  %d replacements in %d files\n", res.Total(), len(res.Replaced))
		}
		return nil
	},
}
