package cli

import (
	"fmt"

	"github.com/pluginkit/plugclone/internal/uid"
	"github.com/spf13/cobra"
)

var uidCount int

func init() {
	uidCmd.Flags().IntVarP(&uidCount, "count", "n", 1, "Number of identifiers to print")
	rootCmd.AddCommand(uidCmd)
}

var uidCmd = &cobra.Command{
	Use:   "uid",
	Short: "Print freshly generated class identifiers",
	Long: `Print random 128-bit identifiers formatted as four 32-bit words, ready to
paste into a FUID initializer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if uidCount < 1 {
			return fmt.Errorf("--count must be at least 1, got %d", uidCount)
		}
		for i := 0; i < uidCount; i++ {
			id, err := uid.Generate()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}
