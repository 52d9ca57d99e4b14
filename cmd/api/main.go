package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/dawan/studentprojects/internal/bootstrap"
	"github.com/dawan/studentprojects/internal/config"
	"github.com/dawan/studentprojects/internal/pkg/logger"
	"github.com/dawan/studentprojects/internal/server"
)

// @title Student Projects API
// @version 1.0
// @description CRUD API for students and the projects they work on

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), configPath)
		},
	}

	root := &cobra.Command{
		Use:           "studentprojects",
		Short:         "Student and project management API backed by Cassandra",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.GetEnv("CONFIG_PATH", "configs/config.yaml"), "path to the YAML config file")

	root.AddCommand(serve, &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the keyspace, tables and indexes, then exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBootstrap(cmd.Context(), configPath)
		},
	})
	return root
}

func runServer(ctx context.Context, configPath string) error {
	srv, err := server.NewServer(ctx, configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		return err
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		return err
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}

func runBootstrap(ctx context.Context, configPath string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	sessions, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	sessions.Close()

	lgr.Info().Str("keyspace", cfg.Database.Keyspace).Msg("Schema is up to date")
	return nil
}
