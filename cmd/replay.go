package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/record"
	"github.com/bnema/waygesture/internal/replay"
	"github.com/bnema/waygesture/internal/ui"
	"github.com/spf13/cobra"
)

var replayQuiet bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Replay a recording through a fresh tracker",
	Long: `Replay a recording made with 'waygesture pad --record'. Frames go
through a new tracker using the recorded timestamps, so the configured
gesture thresholds apply as they would live.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVarP(&replayQuiet, "quiet", "q", false, "Only print the summary")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	cfg := config.Get()
	player := replay.NewPlayer()
	player.Registry = cfg.Registry()
	player.Options = cfg.GestureOptions()
	player.DedupWindow = cfg.DedupWindow()

	ctx, cancel := signalContext()
	defer cancel()

	report, runErr := player.Run(ctx, record.NewReader(f))
	if report == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	if !replayQuiet {
		for _, e := range report.Emitted {
			line := ui.FormatGesture(fmt.Sprintf("%8.3fs", e.At.Seconds()), e.Type, e.X, e.Y)
			if e.Target != "" {
				line += " " + ui.SubtleStyle.Render(e.Target)
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, ui.CreateSeparator(50, "─"))
	}

	counts := report.Counts()
	types := make([]string, 0, len(counts))
	for typ := range counts {
		types = append(types, typ)
	}
	sort.Strings(types)

	fmt.Fprintf(out, "%d frames, %d tracker transitions, %d gestures\n",
		report.Frames, report.Transitions, len(report.Emitted))
	for _, typ := range types {
		fmt.Fprintf(out, "  %s %d\n", ui.GestureStyle(typ).Render(fmt.Sprintf("%-10s", typ)), counts[typ])
	}

	if runErr != nil {
		return fmt.Errorf("replay stopped early: %w", runErr)
	}
	return nil
}
