package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/moments/internal/cli"
	"github.com/dmitrijs2005/moments/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "moments:", err)
		os.Exit(1)
	}

	root := cli.NewRootCommand(cli.NewApp(cfg))
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "moments:", err)
		stop()
		os.Exit(1)
	}
}
