package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hamed0406/waitfor/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.OSStreams())
	stop()
	os.Exit(code)
}
