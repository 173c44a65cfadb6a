// Command analytics-server runs the real-estate price analysis API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"estatepulse/internal/app"
	"estatepulse/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "analytics-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env for local development; missing files are fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	application, err := app.NewApplication(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	return application.Run(ctx)
}
