// Command prospectfind generates ranked prospect lists for a business from
// the command line or over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/randalmurphal/prospectkit/providers"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
