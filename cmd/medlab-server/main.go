package main

import (
	"os"
	"os/signal"
	"syscall"

	"medlab-backend/internal/config"
	"medlab-backend/internal/database"
	"medlab-backend/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "medlab-server",
		Short:         "Patient records API for the medical lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(initDBCmd())

	if err := rootCmd.Execute(); err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Create missing tables and start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close(db) }()

			if cfg.Env == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx, cfg, server.NewRouter(cfg, db, logger), logger)
		},
	}
}

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			db, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			return database.Close(db)
		},
	}
}

func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	return cfg, newLogger(cfg), nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// openDB connects and creates any missing tables.
func openDB(cfg *config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	logger.Info().Msg("database ready")
	return db, nil
}
