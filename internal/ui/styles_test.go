package ui

import (
	"strings"
	"testing"

	"github.com/bnema/waygesture/internal/gesture"
)

func TestFormatControl(t *testing.T) {
	tests := []struct {
		name string
		key  string
		desc string
	}{
		{
			name: "basic control",
			key:  "q",
			desc: "Quit",
		},
		{
			name: "longer key",
			key:  "enter",
			desc: "platform click",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatControl(tt.key, tt.desc)
			if !strings.Contains(got, tt.key) {
				t.Errorf("FormatControl() missing key %q", tt.key)
			}
			if !strings.Contains(got, tt.desc) {
				t.Errorf("FormatControl() missing description %q", tt.desc)
			}
		})
	}
}

func TestFormatGesture(t *testing.T) {
	got := FormatGesture("12:00:01", gesture.EventSwipeLeft, 40, 16)

	for _, want := range []string{"12:00:01", "swipeleft", "(40, 16)"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatGesture() = %q, missing %q", got, want)
		}
	}
}

func TestFormatSetupResult(t *testing.T) {
	ok := FormatSetupResult(true, "Saved", "")
	if !strings.Contains(ok, IconSuccess) || !strings.Contains(ok, "Saved") {
		t.Errorf("FormatSetupResult() = %q", ok)
	}

	failed := FormatSetupResult(false, "Saved", "permission denied")
	if !strings.Contains(failed, IconError) || !strings.Contains(failed, "permission denied") {
		t.Errorf("FormatSetupResult() = %q", failed)
	}
}

func TestCreateSeparator(t *testing.T) {
	tests := []struct {
		name  string
		width int
		char  string
		want  int
	}{
		{"default width", 0, "", 50},
		{"custom", 10, "=", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			char := tt.char
			if char == "" {
				char = "─"
			}
			if got := strings.Count(CreateSeparator(tt.width, tt.char), char); got != tt.want {
				t.Errorf("CreateSeparator() has %d chars, want %d", got, tt.want)
			}
		})
	}
}

func TestPluralize(t *testing.T) {
	if pluralize(1) != "" || pluralize(0) != "s" || pluralize(2) != "s" {
		t.Error("pluralize() mismatch")
	}
}
