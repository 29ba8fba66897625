package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/triage/internal/api"
	"github.com/papapumpkin/triage/internal/intake"
	"github.com/papapumpkin/triage/internal/logging"
	"github.com/papapumpkin/triage/internal/ranking"
	"github.com/papapumpkin/triage/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the task ranking HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("metrics", true, "expose Prometheus metrics")
	serveCmd.Flags().String("events", "", "append JSONL ranking events to this file")
	serveCmd.Flags().Bool("strict", false, "reject dependency IDs that are not a task position in the batch")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	sess, err := loadSession(cmd)
	if err != nil {
		return err
	}
	cfg := sess.cfg

	clock, err := cfg.Clock()
	if err != nil {
		return err
	}
	events, err := telemetry.Open(cfg.Telemetry.Path)
	if err != nil {
		return err
	}
	defer events.Close()

	srv := api.New(api.Options{
		Ranker:          ranking.New(clock),
		Logger:          sess.logger,
		Events:          events,
		Intake:          intake.Options{StrictDependencies: cfg.Analysis.StrictDependencies},
		DefaultStrategy: cfg.Strategy(),
		SuggestLimit:    cfg.Analysis.SuggestLimit,
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
		CORSOrigins:     cfg.Server.CORSOrigins,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsPath:     cfg.Metrics.Path,
	})

	watchLogLevel(sess.logger, sess.level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess.logger.Info("starting triage",
		"addr", cfg.Server.Addr,
		"strategy", cfg.Strategy().String(),
		"strict_dependencies", cfg.Analysis.StrictDependencies,
		"config", viper.ConfigFileUsed(),
	)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// watchLogLevel applies log.level changes from the config file while the
// server runs. Other keys need a restart.
func watchLogLevel(logger *slog.Logger, level *slog.LevelVar) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		applyLogLevel(logger, level, viper.GetString("log.level"), e.Name)
	})
	viper.WatchConfig()
}

// applyLogLevel sets level to name if it is valid and different. It
// reports whether the level changed.
func applyLogLevel(logger *slog.Logger, level *slog.LevelVar, name, source string) bool {
	l, err := logging.ParseLevel(name)
	if err != nil {
		logger.Warn("ignoring invalid log level", "level", name, "source", source)
		return false
	}
	if l == level.Level() {
		return false
	}
	level.Set(l)
	logger.Info("log level changed", "level", l.String(), "source", source)
	return true
}
