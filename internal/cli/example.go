package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/itemshuffle/pkg/worldfile"
)

// exampleCommand prints the bundled sample world, a starting point for
// writing new world files.
func (c *CLI) exampleCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print a sample world file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOutput(output, worldfile.Example)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}
