package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/classcheck/internal/config"
	"github.com/JonMunkholm/classcheck/internal/core"
	"github.com/JonMunkholm/classcheck/internal/logging"
	"github.com/JonMunkholm/classcheck/internal/storage"
)

type importFlags struct {
	debug           bool
	continueOnError bool
	encoding        string
	delimiter       string
}

func newRootCommand() *cobra.Command {
	var flags importFlags

	rootCmd := &cobra.Command{
		Use:           "importer [flags] <file>",
		Short:         "Import classroom inspections from a semicolon separated CSV file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("file not found: %w", err)
			}

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := storage.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			opts := cfg.Import.Options()
			reporter := core.NewReporter(cmd.OutOrStdout(), opts.ProgressEvery, opts.Debug)
			_, err = core.NewImporter(store, reporter, opts).ImportFile(ctx, path)
			return err
		},
	}

	rootCmd.Flags().BoolVar(&flags.debug, "debug", false, "Log raw and normalized values for every row")
	rootCmd.Flags().BoolVar(&flags.continueOnError, "continue-on-error", false, "Skip rows whose write fails instead of aborting")
	rootCmd.Flags().StringVar(&flags.encoding, "encoding", "", "Source file encoding (default from IMPORT_ENCODING, latin1)")
	rootCmd.Flags().StringVar(&flags.delimiter, "delimiter", "", "Field delimiter (default from IMPORT_DELIMITER, ';')")

	rootCmd.AddCommand(newSeedCommand())

	return rootCmd
}

// loadConfig reads .env and the environment, then layers the command line
// flags over the import settings and validates the result again.
func loadConfig(cmd *cobra.Command, flags importFlags) (*config.Config, error) {
	// A missing .env is normal; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	if flags.debug || os.Getenv("DEBUG") == "1" {
		cfg.Import.Debug = true
	}
	if flags.continueOnError {
		cfg.Import.ContinueOnStoreError = true
	}
	if cmd.Flags().Changed("encoding") {
		cfg.Import.Encoding = flags.encoding
	}
	if cmd.Flags().Changed("delimiter") {
		cfg.Import.Delimiter = flags.delimiter
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default inspectors and classrooms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, importFlags{})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Import.Timeout)
			defer cancel()

			store, err := storage.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := core.NewService(store, nil, cfg.Import.Options()).Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d inspectors and %d classrooms\n", res.Inspectors, res.Classrooms)
			return nil
		},
	}
}
