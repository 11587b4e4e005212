package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/itemshuffle/pkg/errors"
	"github.com/matzehuels/itemshuffle/pkg/shuffle"
)

// checkCommand creates the check command, which reduces a world and audits
// it without placing anything.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		tracker bool
		noCache bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "check [world.toml]",
		Short: "Reduce a world and report slots that can never be reached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0], tracker, noCache, asJSON)
		},
	}

	cmd.Flags().BoolVar(&tracker, "tracker", false, "reduce in tracker mode")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, input string, tracker, noCache, asJSON bool) error {
	source, err := readWorld(input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	red, err := runner.Reduce(ctx, shuffle.Options{Source: source, Tracker: tracker})
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(red, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := writeOutput("", append(data, '\n')); err != nil {
			return err
		}
	} else {
		printSuccess("Reduced %s", input)
		printStats(red.Locations, red.Items, red.CacheHit)
		printAudit(red.Audit)
		if red.Audit.OK() {
			printInfo("every slot is reachable")
		}
	}

	if !red.Audit.WinReachable {
		return errors.New(errors.ErrCodeUnreachable, "win slot cannot be reached even with every item")
	}
	return nil
}
