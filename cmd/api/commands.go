package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/afriroots/afriroots-api/internal/config"
	"github.com/afriroots/afriroots-api/internal/observability"
	"github.com/afriroots/afriroots-api/internal/persistence"
)

// newRootCmd creates the root command. Without a subcommand it serves HTTP.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "afriroots",
		Short:         "AfriRoots account and content API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Args:  cobra.NoArgs,
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "migrate",
		Args:    cobra.NoArgs,
		Aliases: []string{"m"},
		Short:   "Apply pending Postgres migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if cfg.Store.Driver != config.StoreDriverPostgres {
				logger.Info("nothing to migrate", zap.String("driver", cfg.Store.Driver))
				return nil
			}

			pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()

			return persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Args:  cobra.NoArgs,
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.App.Name, cfg.App.Version)
			return err
		},
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return nil, nil, err
	}
	return cfg, logger, nil
}
