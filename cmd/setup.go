package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/bnema/waygesture/internal/config"
	"github.com/bnema/waygesture/internal/gesture"
	"github.com/bnema/waygesture/internal/sink"
	"github.com/bnema/waygesture/internal/ui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Tune gesture thresholds interactively",
	Long: `Walk through the gesture thresholds and the handlers to enable, then
save them to the configuration file. Also checks whether /dev/uinput is
usable for --inject.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// gestureForm holds the text fields of the setup form
type gestureForm struct {
	clickMaxDistance string
	dragMinDistance  string
	swipeMinVelocity string
	swipeMinDistance string
	enabled          []string
}

func newGestureForm(g config.GesturesConfig) *gestureForm {
	f := &gestureForm{
		clickMaxDistance: formatFloat(g.Click.MaxDistance),
		dragMinDistance:  formatFloat(g.Drag.MinDistance),
		swipeMinVelocity: formatFloat(g.Swipe.MinVelocity),
		swipeMinDistance: formatFloat(g.Swipe.MinDistance),
	}
	disabled := make(map[string]bool, len(g.Disabled))
	for _, name := range g.Disabled {
		disabled[name] = true
	}
	for _, name := range gesture.DefaultRegistry().Names() {
		if !disabled[name] {
			f.enabled = append(f.enabled, name)
		}
	}
	return f
}

// apply parses the form back into a gestures section
func (f *gestureForm) apply(g config.GesturesConfig) (config.GesturesConfig, error) {
	fields := []struct {
		value string
		dst   *float64
	}{
		{f.clickMaxDistance, &g.Click.MaxDistance},
		{f.dragMinDistance, &g.Drag.MinDistance},
		{f.swipeMinVelocity, &g.Swipe.MinVelocity},
		{f.swipeMinDistance, &g.Swipe.MinDistance},
	}
	for _, field := range fields {
		v, err := parseThreshold(field.value)
		if err != nil {
			return g, err
		}
		*field.dst = v
	}

	enabled := make(map[string]bool, len(f.enabled))
	for _, name := range f.enabled {
		enabled[name] = true
	}
	g.Disabled = []string{}
	for _, name := range gesture.DefaultRegistry().Names() {
		if !enabled[name] {
			g.Disabled = append(g.Disabled, name)
		}
	}
	return g, nil
}

func parseThreshold(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v < 0 {
		return 0, errors.New("must not be negative")
	}
	return v, nil
}

func validateThreshold(s string) error {
	_, err := parseThreshold(s)
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatSetupHeader("Waygesture Setup"))
	fmt.Println()

	cfg := config.Get()
	form := newGestureForm(cfg.Gestures)

	handlers := make([]huh.Option[string], 0, 4)
	for _, name := range gesture.DefaultRegistry().Names() {
		handlers = append(handlers, huh.NewOption(name, name))
	}

	var save bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Gesture handlers").
				Description("Handlers run in this order for every interaction").
				Options(handlers...).
				Value(&form.enabled),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Click max distance (px)").
				Description("A click needs the pointer to end this close to where it started").
				Value(&form.clickMaxDistance).
				Validate(validateThreshold),
			huh.NewInput().
				Title("Drag min distance (px)").
				Description("Horizontal travel before a drag starts").
				Value(&form.dragMinDistance).
				Validate(validateThreshold),
			huh.NewInput().
				Title("Swipe min velocity (px/ms)").
				Value(&form.swipeMinVelocity).
				Validate(validateThreshold),
			huh.NewInput().
				Title("Swipe min distance (px)").
				Value(&form.swipeMinDistance).
				Validate(validateThreshold),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save to " + config.GetConfigPath() + "?").
				Affirmative("Save").
				Negative("Discard").
				Value(&save),
		),
	).Run()
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	gestures, err := form.apply(cfg.Gestures)
	if err != nil {
		fmt.Println(ui.FormatSetupResult(false, "Gesture thresholds", err.Error()))
		return err
	}
	if save {
		if err := config.UpdateGestures(gestures); err != nil {
			fmt.Println(ui.FormatSetupResult(false, "Gesture thresholds", err.Error()))
			return err
		}
		fmt.Println(ui.FormatSetupResult(true, "Gesture thresholds", "saved"))
	} else {
		fmt.Println(ui.FormatSetupResult(true, "Gesture thresholds", "not saved"))
	}

	fmt.Println(checkUinput())
	return nil
}

// checkUinput reports whether --inject can open /dev/uinput
func checkUinput() string {
	if _, err := os.Stat("/dev/uinput"); err != nil {
		return ui.FormatSetupResult(false, "uinput", "/dev/uinput not found, load it with: sudo modprobe uinput")
	}
	mouse, err := sink.NewUinput("waygesture setup check", nil)
	if err != nil {
		return ui.FormatSetupResult(false, "uinput", fmt.Sprintf("cannot create a virtual mouse: %v", err))
	}
	mouse.Close()
	return ui.FormatSetupResult(true, "uinput", "--inject is available")
}
