package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/waygesture/internal/gesture"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetConfig(t *testing.T) {
	t.Helper()
	viper.Reset()
	cfg = nil
	configPathOverride = ""
	t.Cleanup(func() {
		viper.Reset()
		cfg = nil
		configPathOverride = ""
	})
}

func TestInit(t *testing.T) {
	t.Run("initializes with defaults when no config exists", func(t *testing.T) {
		resetConfig(t)
		oldWd, _ := os.Getwd()
		require.NoError(t, os.Chdir(t.TempDir()))
		defer os.Chdir(oldWd)
		t.Setenv("HOME", t.TempDir())

		require.NoError(t, Init())
		c := Get()
		assert.Equal(t, 400, c.Tracker.DedupWindowMs)
		assert.Equal(t, 6.0, c.Gestures.Click.MaxDistance)
		assert.Equal(t, 0.65, c.Gestures.Swipe.MinVelocity)
		assert.Equal(t, 2323, c.Server.Port)
	})

	t.Run("reads overrides from file", func(t *testing.T) {
		resetConfig(t)
		path := filepath.Join(t.TempDir(), "waygesture.toml")
		content := `[tracker]
dedup_window_ms = 250

[gestures]
disabled = ["press"]

[gestures.swipe]
min_velocity = 1.5
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		SetConfigPath(path)

		require.NoError(t, Init())
		c := Get()
		assert.Equal(t, 250*time.Millisecond, c.DedupWindow())
		assert.Equal(t, 1.5, c.Gestures.Swipe.MinVelocity)
		assert.Equal(t, 10.0, c.Gestures.Swipe.MinDistance)
		assert.Equal(t, []string{"press"}, c.Gestures.Disabled)
		assert.Equal(t, path, GetConfigPath())
	})

	t.Run("explicit path that does not exist yet", func(t *testing.T) {
		resetConfig(t)
		SetConfigPath(filepath.Join(t.TempDir(), "missing.toml"))

		require.NoError(t, Init())
		assert.Equal(t, 6.0, Get().Gestures.Drag.MinDistance)
	})

	t.Run("handles invalid TOML", func(t *testing.T) {
		resetConfig(t)
		path := filepath.Join(t.TempDir(), "waygesture.toml")
		require.NoError(t, os.WriteFile(path, []byte("[tracker\ndedup_window_ms = 1"), 0644))
		SetConfigPath(path)

		assert.Error(t, Init())
	})
}

func TestGetReturnsDefaultsBeforeInit(t *testing.T) {
	resetConfig(t)

	c := Get()
	require.NotNil(t, c)
	assert.Equal(t, DefaultConfig.Pad, c.Pad)
	assert.Equal(t, 400*time.Millisecond, c.DedupWindow())
}

func TestGestureOptions(t *testing.T) {
	c := DefaultConfig
	c.Gestures.Click.MaxDistance = 12

	opts := c.GestureOptions()
	assert.Equal(t, 12.0, opts[gesture.NameClick][gesture.OptMaxDistance])
	assert.Equal(t, 6.0, opts[gesture.NameDrag][gesture.OptMinDistance])
	assert.Equal(t, 0.65, opts[gesture.NameSwipe][gesture.OptMinVelocity])
	assert.Equal(t, 10.0, opts[gesture.NameSwipe][gesture.OptMinDistance])
}

func TestRegistryHonoursDisabled(t *testing.T) {
	c := DefaultConfig
	c.Gestures.Disabled = []string{gesture.NameSwipe, gesture.NamePress}

	assert.Equal(t, []string{gesture.NameClick, gesture.NameDrag}, c.Registry().Names())
}

func TestDedupWindowNegativeDisables(t *testing.T) {
	c := DefaultConfig
	c.Tracker.DedupWindowMs = -5
	assert.Equal(t, time.Duration(0), c.DedupWindow())
}

func TestUpdateGesturesSaves(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "nested", "waygesture.toml")
	SetConfigPath(path)

	g := DefaultConfig.Gestures
	g.Drag.MinDistance = 9
	require.NoError(t, UpdateGestures(g))

	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, 9.0, Get().Gestures.Drag.MinDistance)

	viper.Reset()
	SetConfigPath(path)
	require.NoError(t, Init())
	assert.Equal(t, 9.0, Get().Gestures.Drag.MinDistance)
}

func TestIsWhitelisted(t *testing.T) {
	c := DefaultConfig
	c.Server.Whitelist = []string{"SHA256:abc"}

	assert.True(t, c.IsWhitelisted("SHA256:abc"))
	assert.False(t, c.IsWhitelisted("SHA256:def"))
}

func TestWhitelistEdits(t *testing.T) {
	resetConfig(t)
	path := filepath.Join(t.TempDir(), "waygesture.toml")
	SetConfigPath(path)

	require.NoError(t, AddToWhitelist("SHA256:abc"))
	require.NoError(t, AddToWhitelist("SHA256:def"))
	assert.Error(t, AddToWhitelist("SHA256:abc"))
	assert.Equal(t, []string{"SHA256:abc", "SHA256:def"}, Get().Server.Whitelist)
	assert.Empty(t, DefaultConfig.Server.Whitelist)

	require.NoError(t, RemoveFromWhitelist("SHA256:abc"))
	assert.Error(t, RemoveFromWhitelist("SHA256:abc"))

	viper.Reset()
	SetConfigPath(path)
	require.NoError(t, Init())
	assert.Equal(t, []string{"SHA256:def"}, Get().Server.Whitelist)
}
