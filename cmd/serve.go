package cmd

import (
	"fmt"

	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/server"
	"github.com/bnema/waygesture/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	servePort   int
	serveBind   string
	serveWeb    bool
	serveWebURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve gesture pads over SSH",
	Long: `Serve gesture pads over SSH. Every session gets its own pad and its
own pointer tracker. Keys are checked against server.whitelist when
server.whitelist_only is set.

With --web the websocket bridge runs next to the SSH server.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveBind, "bind", "b", "", "Bind address")
	serveCmd.Flags().BoolVar(&serveWeb, "web", false, "Also run the websocket bridge")
	serveCmd.Flags().StringVar(&serveWebURL, "web-address", "", "Websocket bridge address")

	// Bind flags to viper
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.bind_address", serveCmd.Flags().Lookup("bind"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	// Use flag values if provided, otherwise use config
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveBind != "" {
		cfg.Server.BindAddress = serveBind
	}

	ctx, cancel := signalContext()
	defer cancel()

	srv := server.New(cfg, ui.PadOptionsFromConfig(cfg), logger.Logger)
	srv.OnSessionStarted = func(addr, fingerprint string) {
		logger.Info("Pad session opened", "addr", addr, "key", fingerprint, "sessions", srv.Sessions())
	}
	srv.OnSessionEnded = func(addr string) {
		logger.Info("Pad session closed", "addr", addr, "sessions", srv.Sessions())
	}

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer srv.Stop()

	logger.Infof("Pads available with: ssh -p %d <host>", cfg.Server.Port)
	if !cfg.Server.WhitelistOnly {
		logger.Warn("Whitelist-only mode is DISABLED, all SSH keys are accepted")
	}

	if serveWeb {
		addr := serveWebURL
		if addr == "" {
			addr = cfg.Web.Address
		}
		errCh := make(chan error, 1)
		go func() {
			errCh <- newBridge(cfg).ListenAndServe(ctx, addr)
		}()
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("websocket bridge failed: %w", err)
			}
		case <-ctx.Done():
		}
	} else {
		<-ctx.Done()
	}

	logger.Info("Shutting down...")
	return nil
}
