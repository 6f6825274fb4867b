package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"blueshift/config"
	"blueshift/logger"
	"blueshift/metadata"
	"blueshift/storage"
)

type rootOptions struct {
	configFile string
	envPrefix  string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "blueshift",
		Short:         "Inspect and manage the MongoDB database behind a blueshift model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a configuration file")
	root.PersistentFlags().StringVar(&opts.envPrefix, "env-prefix", "BLUESHIFT", "prefix for environment variables")

	root.AddCommand(newPingCommand(opts), newDropCommand(opts))
	return root
}

func newPingCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Connect to the configured server and ping it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd.Context(), opts, func(_ *config.Config, _ *mongo.Client, log logger.Logger) error {
				log.Info("ping ok")
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			})
		},
	}
}

func newDropCommand(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to drop without --yes")
			}
			return withClient(cmd.Context(), opts, func(cfg *config.Config, raw *mongo.Client, log logger.Logger) error {
				model, err := metadata.NewBuilder().FromDatabase(cfg.Mongo.Database).Build()
				if err != nil {
					return err
				}
				client := storage.NewMongoClient(raw, storage.WithOperationTimeout(cfg.Mongo.OperationTimeout))
				conn, err := storage.NewConnection(client, model, storage.WithLogger(log))
				if err != nil {
					return err
				}
				if err := dropDatabase(cmd.Context(), conn, cfg.Mongo.OperationTimeout); err != nil {
					return fmt.Errorf("drop %s: %w", cfg.Mongo.Database, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", cfg.Mongo.Database)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm dropping the database")
	return cmd
}

// dropDatabase drops the connection's database within timeout.
func dropDatabase(ctx context.Context, conn *storage.Connection, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return conn.DropDatabaseContext(ctx)
}

func withClient(ctx context.Context, opts *rootOptions, fn func(*config.Config, *mongo.Client, logger.Logger) error) error {
	cfg, err := config.Load(opts.configFile, opts.envPrefix)
	if err != nil {
		return err
	}
	zl, err := logger.NewZapLogger(cfg.LoggerConfig())
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()
	log := zl.With("database", cfg.Mongo.Database)

	raw, err := storage.Dial(ctx, storage.MongoConfig{
		URI:              cfg.Mongo.URI,
		ConnectTimeout:   cfg.Mongo.ConnectTimeout,
		OperationTimeout: cfg.Mongo.OperationTimeout,
	}, log)
	if err != nil {
		return err
	}
	defer func() { _ = raw.Disconnect(context.Background()) }()

	return fn(cfg, raw, log)
}
