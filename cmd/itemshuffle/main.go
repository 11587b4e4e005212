// Command itemshuffle places the items of a world file so that the world
// stays completable.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/itemshuffle/internal/cli"
	shuffleerr "github.com/matzehuels/itemshuffle/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode is 0 on success, 130 on interrupt, 2 for worlds that cannot be
// shuffled and 1 for everything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	fmt.Fprintln(os.Stderr, err)
	switch shuffleerr.GetCode(err) {
	case shuffleerr.ErrCodeUnreachable, shuffleerr.ErrCodePlacementFailed:
		return 2
	default:
		return 1
	}
}
