package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/itemshuffle/pkg/cache"
)

// cacheCommand groups the subcommands that inspect and clear the local
// reduction and placement cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local result cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every cached reduction and placement",
			Args:  cobra.NoArgs,
			RunE: withFileCache(func(fc *cache.FileCache) error {
				n, err := fc.Clear()
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Removed %d cached entries", n)
				printDetail("%s", fc.Dir())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show how many entries the cache holds",
			Args:  cobra.NoArgs,
			RunE: withFileCache(func(fc *cache.FileCache) error {
				n, size, err := fc.Stats()
				if err != nil {
					return fmt.Errorf("read cache: %w", err)
				}
				printKeyValue("entries", fmt.Sprint(n))
				printKeyValue("size", humanize.Bytes(uint64(size)))
				printKeyValue("dir", fc.Dir())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("locate cache: %w", err)
				}
				fmt.Println(dir)
				return nil
			},
		},
	)
	return cmd
}

func withFileCache(fn func(*cache.FileCache) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dir, err := cacheDir()
		if err != nil {
			return fmt.Errorf("locate cache: %w", err)
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return err
		}
		defer fc.Close()
		return fn(fc)
	}
}
