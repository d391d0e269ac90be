package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/recetario/internal/buildinfo"
	"github.com/dmitrijs2005/recetario/internal/client/cli"
	"github.com/dmitrijs2005/recetario/internal/client/config"
	"github.com/dmitrijs2005/recetario/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()

	logger := logging.New(cfg.LogLevel, os.Stderr)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
