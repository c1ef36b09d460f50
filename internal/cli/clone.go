package cli

import (
	"fmt"
	"os"

	"github.com/pluginkit/plugclone/internal/attribute"
	"github.com/pluginkit/plugclone/internal/clone"
	"github.com/pluginkit/plugclone/internal/config"
	"github.com/pluginkit/plugclone/internal/manifest"
	"github.com/pluginkit/plugclone/internal/project"
	"github.com/pluginkit/plugclone/internal/substitute"
	"github.com/spf13/cobra"
)

const cloneUsage = "usage: clonePlugin destination pluginName (company) (mfgr) (subtype) (url) (email)"

var (
	cloneSource     string
	cloneInfoFile   string
	cloneNoDefaults bool
	cloneRecord     bool
)

func init() {
	cloneCmd.Flags().StringVar(&cloneSource, "source", "", "Template project to copy (default: current directory)")
	cloneCmd.Flags().StringVar(&cloneInfoFile, "from", "", "YAML file with attribute values")
	cloneCmd.Flags().BoolVar(&cloneNoDefaults, "no-defaults", false, "Ignore defaults from the config file")
	cloneCmd.Flags().BoolVar(&cloneRecord, "record", false, "Write a clone record (.plugclone.yaml) into the copy")
	rootCmd.AddCommand(cloneCmd)
}

var cloneCmd = &cobra.Command{
	Use:     "clone <destination> <pluginName> [company] [mfgr] [subtype] [url] [email]",
	Aliases: []string{"clonePlugin"},
	Short:   "Copy the template project and give the copy a new identity",
	Long: `Copy the template project to <destination>/<lowercased pluginName>, remove
its build directory, assign fresh class identifiers, and replace the plugin
name placeholders. The optional arguments fill in the remaining attributes in
the order shown.

Values for attributes not given positionally come from --from, then from the
config file or PLUGCLONE_* environment variables (see "plugclone config").
Each value is printed with where it came from.

With --record, a .plugclone.yaml record of the clone is written into the copy
for "plugclone info".

Example:
  plugclone clone ~/plugins Aalto "Madrona Labs" MLbs Aalt https://madronalabs.com support@madronalabs.com`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		if len(args) < 2 || len(args) > 2+len(attribute.Optional()) {
			fmt.Fprintln(out, cloneUsage)
			return nil
		}
		destRoot, name := args[0], args[1]

		jobs, origins, err := cloneAttributes(args[2:])
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return nil
		}

		source := cloneSource
		if source == "" {
			if source, err = os.Getwd(); err != nil {
				return fmt.Errorf("getting working directory: %w", err)
			}
		}
		tmpl, err := project.Open(source)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return nil
		}

		fmt.Fprintln(out, "new project destination:", clone.Destination(destRoot, name))
		for _, job := range jobs {
			fmt.Fprintf(out, "  %s = %q (from %s)\n", job.Attribute, job.Value, origins[job.Attribute])
		}

		result, err := clone.Clone(clone.Options{
			Template:        tmpl,
			DestinationRoot: destRoot,
			Name:            name,
			Attributes:      jobs,
			Record:          cloneRecord,
			ToolVersion:     buildVersion,
		})

		rep := newReporter(out, errOut)
		if result != nil {
			if result.BuildRemoved {
				fmt.Fprintln(out, "  removed build directory")
			}
			rep.substitutions(result.Substitutions)
		}

		if err != nil {
			if result == nil {
				// No result means the copy itself did not complete.
				fmt.Fprintf(errOut, "error copying directory tree to %s: %v\n", clone.Destination(destRoot, name), err)
			} else {
				fmt.Fprintf(errOut, "error: %v\n", err)
			}
			return nil
		}

		fmt.Fprintf(out, "Created %s at %s/\n", name, result.Destination)
		fmt.Fprintf(out, "  uida: %s\n", result.UIDs[attribute.UIDA])
		fmt.Fprintf(out, "  uidb: %s\n", result.UIDs[attribute.UIDB])
		if result.RecordPath != "" {
			fmt.Fprintln(out, "  record:", result.RecordPath)
		}
		return nil
	},
}

// cloneAttributes merges positional values, the --from file, and config
// defaults, in that order of precedence, into jobs in argument order. The
// returned map says where each value came from.
func cloneAttributes(positional []string) ([]substitute.Job, map[attribute.Attribute]string, error) {
	values := make(map[attribute.Attribute]string)
	origins := make(map[attribute.Attribute]string)
	optional := attribute.Optional()

	if !cloneNoDefaults {
		for _, job := range config.Defaults() {
			values[job.Attribute] = job.Value
			origins[job.Attribute] = config.Origin(string(job.Attribute))
		}
	}

	if cloneInfoFile != "" {
		info, err := manifest.ParseInfoFile(cloneInfoFile)
		if err != nil {
			return nil, nil, err
		}
		for a, v := range info {
			if a == attribute.Name || attribute.IsUID(a) {
				return nil, nil, fmt.Errorf("%s in %s: clone sets %s itself", a, cloneInfoFile, a)
			}
			values[a] = v
			origins[a] = cloneInfoFile
		}
	}

	for i, v := range positional {
		values[optional[i]] = v
		origins[optional[i]] = "argument"
	}

	var jobs []substitute.Job
	for _, a := range optional {
		if v, ok := values[a]; ok {
			jobs = append(jobs, substitute.Job{Attribute: a, Value: v})
		}
	}
	return jobs, origins, nil
}
