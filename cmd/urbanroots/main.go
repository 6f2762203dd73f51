package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sandeepkv93/urbanroots/internal/config"
)

var (
	cfgFile string
	version = "dev"
	logSink io.Closer

	rootCmd = &cobra.Command{
		Use:   "urbanroots",
		Short: "Shop for plants and keep up with their care",
		Long: `urbanroots is a terminal companion for an urban gardening shop.
Browse the catalog, manage a cart, track your plants and get reminded
when they need water, food or a trim.

Running it without a subcommand opens the interactive app.`,
		PersistentPreRunE: initConfig,
		RunE:              runTUI,
		SilenceUsage:      true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/urbanroots/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("store", "", "storage driver (sqlite, file, memory)")
	rootCmd.PersistentFlags().String("store-path", "", "path of the sqlite database or JSON file")

	bindFlag("logging.level", "log-level")
	bindFlag("logging.format", "log-format")
	bindFlag("store.driver", "store")
	bindFlag("store.path", "store-path")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(catalogCmd())
	rootCmd.AddCommand(cartCmd())
	rootCmd.AddCommand(plantsCmd())
	rootCmd.AddCommand(remindersCmd())
	rootCmd.AddCommand(tipsCmd())
	rootCmd.AddCommand(gardenCmd())
	rootCmd.AddCommand(communityCmd())
	rootCmd.AddCommand(storeCmd())
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind %s: %v", flag, err))
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	if logSink != nil {
		_ = logSink.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// A missing .env is normal; only a malformed one is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "urbanroots"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	// The TUI owns the terminal, so its logs only go to a file.
	return setupLogging(cfg.Logging, !cmd.HasParent())
}

func setupLogging(cfg config.LoggingConfig, interactive bool) error {
	var out io.Writer = os.Stderr
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logSink = f
		out = f
	case interactive:
		out = io.Discard
	}
	slog.SetDefault(slog.New(newLogHandler(out, cfg)))
	return nil
}

func newLogHandler(out io.Writer, cfg config.LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(out, opts)
	}
	return slog.NewTextHandler(out, opts)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "urbanroots %s\n", version)
		},
	}
}
