package cmd

import (
	"fmt"
	"os"

	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/logger"
	"github.com/bnema/waygesture/internal/record"
	"github.com/bnema/waygesture/internal/sink"
	"github.com/bnema/waygesture/internal/ui"
	"github.com/spf13/cobra"
)

var (
	padRecord  string
	padInject  bool
	padLogFile string
)

var padCmd = &cobra.Command{
	Use:   "pad",
	Short: "Recognise gestures from the terminal mouse",
	Long: `Open a full-screen pad that turns terminal mouse input into pointer
events. Recognised gestures are listed as they happen.

With --record every raw event is written to a file for 'waygesture replay'.
With --inject recognised clicks and swipes are replayed on a uinput virtual
mouse, which needs write access to /dev/uinput.`,
	RunE: runPad,
}

func init() {
	padCmd.Flags().StringVarP(&padRecord, "record", "r", "", "Record raw events to this file")
	padCmd.Flags().BoolVar(&padInject, "inject", false, "Inject recognised gestures through uinput")
	padCmd.Flags().StringVar(&padLogFile, "log-file", "", "Write logs here while the pad is open")

	rootCmd.AddCommand(padCmd)
}

func runPad(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	opts := ui.PadOptionsFromConfig(cfg)

	if padRecord != "" {
		f, err := os.Create(padRecord)
		if err != nil {
			return fmt.Errorf("failed to create recording: %w", err)
		}
		defer f.Close()
		opts.Recorder = record.NewWriter(f)
	}

	if padInject || cfg.Sink.Uinput {
		mouse, err := sink.NewUinput(cfg.Sink.DeviceName, logger.Logger)
		if err != nil {
			return fmt.Errorf("failed to create virtual mouse: %w", err)
		}
		defer mouse.Close()
		opts.Listeners = append(opts.Listeners, mouse.Listener())
	}

	pad, err := ui.NewPad(opts)
	if err != nil {
		return fmt.Errorf("failed to create pad: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := ui.NewProgramRunner(ui.ProgramConfig{LogFile: padLogFile})
	if err := runner.Run(ctx, pad); err != nil {
		return fmt.Errorf("pad failed: %w", err)
	}

	honoured, suppressed := pad.Surface().Clicks()
	logger.Infof("%d clicks, %d platform clicks suppressed", honoured, suppressed)
	if padRecord != "" {
		logger.Infof("Recording saved to: %s", padRecord)
	}
	return nil
}
