package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Waygesture configuration",
	Long:  `Manage Waygesture configuration including gesture thresholds and the SSH whitelist.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

		fmt.Fprintf(w, "Config file:\t%s\n", config.GetConfigPath())

		fmt.Fprintln(w, "\n[Tracker]")
		fmt.Fprintf(w, "  Dedup Window:\t%d ms\n", cfg.Tracker.DedupWindowMs)

		fmt.Fprintln(w, "\n[Gestures]")
		fmt.Fprintf(w, "  Handlers:\t%s\n", strings.Join(cfg.Registry().Names(), ", "))
		fmt.Fprintf(w, "  Click Max Distance:\t%.1f px\n", cfg.Gestures.Click.MaxDistance)
		fmt.Fprintf(w, "  Drag Min Distance:\t%.1f px\n", cfg.Gestures.Drag.MinDistance)
		fmt.Fprintf(w, "  Swipe Min Velocity:\t%.2f px/ms\n", cfg.Gestures.Swipe.MinVelocity)
		fmt.Fprintf(w, "  Swipe Min Distance:\t%.1f px\n", cfg.Gestures.Swipe.MinDistance)

		fmt.Fprintln(w, "\n[Pad]")
		fmt.Fprintf(w, "  Cell Size:\t%.0fx%.0f px\n", cfg.Pad.CellWidth, cfg.Pad.CellHeight)

		fmt.Fprintln(w, "\n[Server]")
		fmt.Fprintf(w, "  Port:\t%d\n", cfg.Server.Port)
		fmt.Fprintf(w, "  Bind Address:\t%s\n", cfg.Server.BindAddress)
		fmt.Fprintf(w, "  Host Key:\t%s\n", cfg.Server.HostKeyPath)
		fmt.Fprintf(w, "  Max Sessions:\t%d\n", cfg.Server.MaxSessions)
		fmt.Fprintf(w, "  Whitelist Only:\t%v\n", cfg.Server.WhitelistOnly)
		fmt.Fprintf(w, "  Whitelisted Keys:\t%d\n", len(cfg.Server.Whitelist))

		fmt.Fprintln(w, "\n[Web]")
		fmt.Fprintf(w, "  Address:\t%s\n", cfg.Web.Address)

		fmt.Fprintln(w, "\n[Sink]")
		fmt.Fprintf(w, "  Uinput:\t%v\n", cfg.Sink.Uinput)
		fmt.Fprintf(w, "  Device Name:\t%s\n", cfg.Sink.DeviceName)

		return w.Flush()
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save current configuration to file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Save(); err != nil {
			return err
		}
		logger.Infof("Configuration saved to: %s", config.GetConfigPath())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check if config already exists
		configPath := config.GetConfigPath()
		if _, err := os.Stat(configPath); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				logger.Infof("Configuration file already exists at: %s", configPath)
				logger.Info("Use --force to overwrite")
				return nil
			}
		}

		// Save default configuration
		if err := config.Save(); err != nil {
			return err
		}

		logger.Infof("Configuration initialized at: %s", configPath)
		logger.Info("You can now:")
		logger.Info("  - Edit the configuration file directly")
		logger.Info("  - Use 'waygesture setup' to tune gesture thresholds")
		logger.Info("  - Use 'waygesture config show' to view current settings")
		return nil
	},
}

var configSSHCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Manage SSH whitelist",
}

var configSSHListCmd = &cobra.Command{
	Use:   "list",
	Short: "List whitelisted SSH keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		out := cmd.OutOrStdout()

		if len(cfg.Server.Whitelist) == 0 {
			fmt.Fprintln(out, "No SSH keys in whitelist")
		} else {
			fmt.Fprintln(out, "Whitelisted SSH Keys:")
			for i, fp := range cfg.Server.Whitelist {
				fmt.Fprintf(out, "%d. %s\n", i+1, fp)
			}
		}

		if cfg.Server.WhitelistOnly {
			fmt.Fprintln(out, "Whitelist-only mode is ENABLED")
		} else {
			fmt.Fprintln(out, "Whitelist-only mode is DISABLED, all SSH keys are accepted")
		}
		return nil
	},
}

var configSSHAddCmd = &cobra.Command{
	Use:   "add <fingerprint>",
	Short: "Add SSH key fingerprint to whitelist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !strings.HasPrefix(args[0], "SHA256:") {
			return fmt.Errorf("invalid fingerprint %q: expected SHA256:...", args[0])
		}
		if err := config.AddToWhitelist(args[0]); err != nil {
			return err
		}
		logger.Infof("Added SSH key to whitelist: %s", args[0])
		return nil
	},
}

var configSSHRemoveCmd = &cobra.Command{
	Use:   "remove <fingerprint>",
	Short: "Remove SSH key from whitelist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.RemoveFromWhitelist(args[0]); err != nil {
			return err
		}
		logger.Infof("Removed SSH key from whitelist: %s", args[0])
		return nil
	},
}

var configSSHClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all SSH keys from whitelist",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := config.Get().Server
		count := len(srv.Whitelist)
		if count == 0 {
			logger.Info("Whitelist is already empty")
			return nil
		}

		srv.Whitelist = []string{}
		if err := config.UpdateServer(srv); err != nil {
			return err
		}
		logger.Infof("Cleared %d SSH key(s) from whitelist", count)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSaveCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSSHCmd)

	configSSHCmd.AddCommand(configSSHListCmd)
	configSSHCmd.AddCommand(configSSHAddCmd)
	configSSHCmd.AddCommand(configSSHRemoveCmd)
	configSSHCmd.AddCommand(configSSHClearCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite existing configuration")

	rootCmd.AddCommand(configCmd)
}
