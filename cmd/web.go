package cmd

import (
	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/sink"
	"github.com/bnema/waygesture/internal/web"
	"github.com/spf13/cobra"
)

var webAddress string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the websocket bridge for browser pages",
	Long: `Run the websocket bridge. A page streams its mouse, touch and pointer
events as JSON to /ws and receives the recognised gestures back on the same
connection. Platform click events sent by the page are answered as
suppressed. /healthz reports the number of open connections.`,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVarP(&webAddress, "address", "a", "", "Listen address (default web.address)")
	rootCmd.AddCommand(webCmd)
}

func runWeb(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	addr := webAddress
	if addr == "" {
		addr = cfg.Web.Address
	}

	ctx, cancel := signalContext()
	defer cancel()

	opts := []web.Option{web.WithLogger(logger.Logger)}
	if cfg.Sink.Uinput {
		mouse, err := sink.NewUinput(cfg.Sink.DeviceName, logger.Logger)
		if err != nil {
			return err
		}
		defer mouse.Close()
		opts = append(opts, web.WithListener(mouse.Listener()))
	}
	return web.New(cfg, opts...).ListenAndServe(ctx, addr)
}

func newBridge(cfg *config.Config) *web.Bridge {
	return web.New(cfg, web.WithLogger(logger.Logger))
}
