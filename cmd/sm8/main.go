package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/servicem8/sm8-cli/internal/cmd"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx, args)
	return cmd.ExitCode(err)
}
