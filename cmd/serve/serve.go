// Package serve implements the serve subcommand that runs the HTTP server.
package serve

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pneumoscan/pneumoscan-go/internal/api"
	"github.com/pneumoscan/pneumoscan-go/internal/conf"
	"github.com/pneumoscan/pneumoscan-go/internal/datastore"
	"github.com/pneumoscan/pneumoscan-go/internal/logging"
	"github.com/pneumoscan/pneumoscan-go/internal/observability"
)

// Command creates the serve command
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the model configuration server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}
	return cmd
}

// runServer opens the registry store, seeds it when configured, and runs the
// HTTP server until interrupted.
func runServer(settings *conf.Settings) error {
	ds := datastore.New(settings)
	if ds == nil {
		return fmt.Errorf("no database backend enabled in configuration")
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			logging.Error("Failed to close datastore", "error", err)
		}
	}()

	if settings.Registry.AutoSeed {
		if err := datastore.Seed(ds); err != nil {
			return fmt.Errorf("failed to seed model registry: %w", err)
		}
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	server, err := api.New(settings,
		api.WithDataStore(ds),
		api.WithMetrics(metrics),
		api.WithLogger(log.Default()),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx)
}
