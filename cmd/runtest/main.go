// Command runtest runs a program against a YAML fixture and reports
// PASS or FAIL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/runtest/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
