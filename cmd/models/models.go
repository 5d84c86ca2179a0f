// Package models implements the models subcommand for administering the
// model configuration registry from the command line.
package models

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pneumoscan/pneumoscan-go/internal/conf"
	"github.com/pneumoscan/pneumoscan-go/internal/datastore"
)

// Command creates the models command with its subcommands
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Administer the model configuration registry",
	}

	cmd.AddCommand(
		listCommand(settings),
		seedCommand(settings),
		activateCommand(settings, true),
		activateCommand(settings, false),
	)

	return cmd
}

// withDatastore opens the registry store, runs fn and closes the store.
func withDatastore(settings *conf.Settings, fn func(ds datastore.Interface) error) error {
	ds := datastore.New(settings)
	if ds == nil {
		return fmt.Errorf("no database backend enabled in configuration")
	}
	if err := ds.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() { _ = ds.Close() }()
	return fn(ds)
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active model configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatastore(settings, func(ds datastore.Interface) error {
				models, err := ds.ListActiveModels()
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "TYPE\tNAME\tCDN URL\tINPUT\tBATCH\tCLASSES")
				for i := range models {
					m := &models[i]
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
						m.ModelType, m.Name, m.CDNURL, m.InputSize, m.BatchSize, len(m.Classes))
				}
				return w.Flush()
			})
		},
	}
}

func seedCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the registry with the default model variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatastore(settings, func(ds datastore.Interface) error {
				if err := datastore.Seed(ds); err != nil {
					return err
				}
				fmt.Println("Model registry seeded")
				return nil
			})
		},
	}
}

func activateCommand(settings *conf.Settings, active bool) *cobra.Command {
	use, short := "activate [model-type]", "Activate a model configuration"
	if !active {
		use, short = "deactivate [model-type]", "Deactivate a model configuration without deleting it"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatastore(settings, func(ds datastore.Interface) error {
				if err := ds.SetModelActive(args[0], active); err != nil {
					return err
				}
				fmt.Printf("Model %s active=%v\n", args[0], active)
				return nil
			})
		},
	}
}
