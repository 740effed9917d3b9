// Command historian runs the conversation history manager: as a Connect RPC
// service, as an interactive chat shell, or as a session administration tool.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/tailored-agentic-units/historian/historian"
)

var (
	configFile string
	logFile    string
	verbose    bool
	telemetry  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "historian",
		Short:         "Per-session conversation history manager",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is fine; explicit environment wins anyway.
			_ = godotenv.Load()
			setupLogging()
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to config file (.json, .yaml, or .toml)")
	pf.StringVar(&logFile, "log-file", "", "Write logs to this rotating file instead of stderr")
	pf.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	pf.BoolVar(&telemetry, "telemetry", false, "Emit OpenTelemetry traces and metrics to rotating files under logs/")

	root.AddCommand(newServeCmd(), newChatCmd(), newSessionsCmd())
	return root
}

func loadConfig() (*historian.Config, error) {
	if configFile == "" {
		cfg := historian.DefaultConfig()
		return &cfg, nil
	}
	return historian.LoadConfig(configFile)
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if logFile != "" {
		handler = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
