package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/itemshuffle/pkg/observability"
	"github.com/matzehuels/itemshuffle/pkg/shuffle"
)

// shuffleFlags holds the flags shared by commands that run placements.
type shuffleFlags struct {
	seed        string
	attempts    int
	parallelism int
	tracker     bool
	noCache     bool
	refresh     bool
}

func (f *shuffleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.seed, "seed", "s", "", "placement seed (default: random)")
	cmd.Flags().IntVar(&f.attempts, "attempts", shuffle.DefaultMaxAttempts, "maximum placement attempts")
	cmd.Flags().IntVarP(&f.parallelism, "parallel", "p", shuffle.DefaultParallelism, "attempts run concurrently")
	cmd.Flags().BoolVar(&f.tracker, "tracker", false, "reduce in tracker mode")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute cached results")
}

func (f *shuffleFlags) options(source []byte) (shuffle.Options, error) {
	seed, err := resolveSeed(f.seed)
	if err != nil {
		return shuffle.Options{}, err
	}
	return shuffle.Options{
		Source:      source,
		Seed:        seed,
		MaxAttempts: f.attempts,
		Parallelism: f.parallelism,
		Tracker:     f.tracker,
		Refresh:     f.refresh,
	}, nil
}

// shuffleCommand creates the shuffle command.
func (c *CLI) shuffleCommand() *cobra.Command {
	var (
		flags   shuffleFlags
		output  string
		spoiler bool
	)

	cmd := &cobra.Command{
		Use:   "shuffle [world.toml]",
		Short: "Place every item of a world",
		Long: `Place every item of a world so that the result is completable.

The same world and seed always produce the same placement. Without --seed a
random seed is chosen and printed. Use "-" to read the world from stdin.

The full result (assignment, playthrough spheres, audit) is written as JSON
with --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShuffle(cmd.Context(), args[0], flags, output, spoiler)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON result to this file")
	cmd.Flags().BoolVar(&spoiler, "spoiler", false, "print the assignment and playthrough")

	return cmd
}

func (c *CLI) runShuffle(ctx context.Context, input string, flags shuffleFlags, output string, spoiler bool) error {
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

	const status = "Placing items..."
	st := startStage(c.Logger)
	spin := newSpinner(ctx, os.Stderr, status)
	prev := observability.Shuffle()
	observability.SetShuffleHooks(&attemptHooks{spinner: spin, base: status})
	defer observability.SetShuffleHooks(prev)

	spin.Start()
	res, err := runner.Run(ctx, opts)
	if err != nil {
		spin.StopWithError("Shuffle failed")
		return err
	}
	spin.Stop()
	st.done("placed", "items", len(res.Assignment), "attempts", res.Attempts)

	printSuccess("Shuffled %s", input)
	printKeyValue("seed", fmt.Sprint(res.Seed))
	printKeyValue("attempts", fmt.Sprint(res.Attempts))
	printKeyValue("run", res.RunID)
	printStats(res.Stats.Locations, res.Stats.Items, res.CacheInfo.PlacementHit)
	printAudit(res.Audit)

	if spoiler {
		fmt.Println()
		printAssignment(res.Assignment)
		fmt.Println()
		printSpheres(res.Spheres, res.Assignment)
	}

	if output != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		return writeOutput(output, append(data, '\n'))
	}
	return nil
}

func sortedSlots(assignment map[string]string) []string {
	return slices.Sorted(maps.Keys(assignment))
}
