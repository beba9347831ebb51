// Command odataq parses OData-style query strings and prints the
// resulting options as JSON, MessagePack, text or page tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "odataq: %v\n", err)
		stop()
		os.Exit(1)
	}
}
