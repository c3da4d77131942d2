package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/opal-lang/fncompile/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, cli.NewRootCommand())
	stop()
	os.Exit(code)
}
