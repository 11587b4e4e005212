package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/itemshuffle/pkg/errors"
	"github.com/matzehuels/itemshuffle/pkg/render/dot"
)

// graphCommand creates the graph command, which draws the reduced world.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags  shuffleFlags
		format string
		output string
		place  bool
	)

	cmd := &cobra.Command{
		Use:   "graph [world.toml]",
		Short: "Draw which items unlock which slots",
		Long: `Draw which items unlock which slots.

Each slot is a box; each item an ellipse. Alternatives that need several
items meet at a small junction. With --place the items are placed first and
each slot shows its contents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateFormat(format, dot.FormatDOT, dot.FormatSVG); err != nil {
				return err
			}
			return c.runGraph(cmd.Context(), args[0], flags, format, output, place)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", dot.FormatSVG, "output format: svg, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&place, "place", false, "place items and label slots with their contents")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input string, flags shuffleFlags, format, output string, place bool) error {
	source, err := readWorld(input)
	if err != nil {
		return err
	}
	opts, err := flags.options(source)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var rendered []byte
	if place {
		res, err := runner.Run(ctx, opts)
		if err != nil {
			return err
		}
		rendered, err = dot.Render(ctx, res.World.Graph, res.List, format, dot.Options{Assigned: true})
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
	} else {
		red, err := runner.Reduce(ctx, opts)
		if err != nil {
			return err
		}
		rendered, err = dot.Render(ctx, red.World.Graph, red.List, format, dot.Options{})
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	return writeOutput(output, rendered)
}
