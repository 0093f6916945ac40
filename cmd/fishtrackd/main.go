// Command fishtrackd runs the HTTP surface: upload endpoint and
// interval read endpoint over the persisted store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"fishtrack/internal/config"
	"fishtrack/internal/container"
	"fishtrack/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	app, err := container.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.Pipeline.StationMappingCSV != "" {
		if err := app.LoadStationMapping(ctx, cfg.Pipeline.StationMappingCSV); err != nil {
			app.Logger.Warn("[fishtrackd] station mapping not loaded: %v", err)
		}
	}

	srv := server.New(app)
	if err := srv.ListenAndServe(":" + cfg.Server.Port); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
