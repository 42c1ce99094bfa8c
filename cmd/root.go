package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "waygesture",
		Short: "Waygesture - pointer gesture recognition",
		Long: `Waygesture turns raw mouse, touch and pointer events into gestures:
click, press, drag and swipe. Events come from a terminal pad, SSH sessions,
a browser over websockets or a recording, and recognised clicks can be
injected through uinput.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ~/.config/waygesture/waygesture.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func initConfig(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		config.SetConfigPath(configFile)
	}
	if err := config.Init(); err != nil {
		return err
	}

	// Flag beats config file, config file beats LOG_LEVEL
	switch {
	case logLevel != "":
		logger.SetLevel(logLevel)
	case config.Get().Logging.LogLevel != "":
		logger.SetLevel(config.Get().Logging.LogLevel)
	}
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
