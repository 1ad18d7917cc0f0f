package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todolist/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("error: "+cli.ErrorMessage(err)))
		stop()
		os.Exit(1)
	}
}
