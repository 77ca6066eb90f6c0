package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/chapel/internal/logging"
	"github.com/dmitrijs2005/chapel/internal/server"
	"github.com/dmitrijs2005/chapel/internal/server/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if usage, uerr := config.EnvUsage(); uerr == nil {
			fmt.Fprintln(os.Stderr, usage)
		}
		os.Exit(1)
	}

	logger := logging.New(cfg.Env, os.Stdout)
	ctx := context.Background()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
