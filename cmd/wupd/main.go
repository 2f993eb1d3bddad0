// cmd/wupd/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/arc-language/wupd/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
