package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/triage/internal/config"
	"github.com/papapumpkin/triage/internal/logging"
	"github.com/papapumpkin/triage/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Score and rank tasks by priority",
	Long: "Triage scores tasks by urgency, importance, effort and dependencies under a\n" +
		"named strategy, rejects batches with circular dependencies, and serves the\n" +
		"ranking over HTTP or prints it in the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		ui.New().Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .triage.toml or .triage.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")
}

func initConfig() {
	bindFlags()

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".triage")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(config.EnvKeyReplacer)
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			ui.New().Error(fmt.Sprintf("reading config: %v", err))
		}
	}
}

// bindFlags connects flags to their config keys. It runs on every
// invocation so bindings survive a viper reset.
func bindFlags() {
	flags := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("metrics.enabled", serveCmd.Flags().Lookup("metrics"))
	_ = viper.BindPFlag("telemetry.path", serveCmd.Flags().Lookup("events"))
	_ = viper.BindPFlag("analysis.strict_dependencies", serveCmd.Flags().Lookup("strict"))
}

// session is the state shared by every subcommand.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	level  *slog.LevelVar
}

// loadSession loads configuration and builds the logger.
func loadSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, level, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return &session{cfg: cfg, logger: logger, level: level}, nil
}
