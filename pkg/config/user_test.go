package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", IniFilename)
	t.Setenv(UserConfigEnv, path)

	cfg, err := NewUserConfig(DefaultUserConfig())
	require.NoError(t, err)

	assert.Equal(t, path, cfg.IniPath)
	assert.FileExists(t, path)
	assert.Equal(t, DefaultApiPort, cfg.GetApiPort())
	assert.Equal(t, DefaultDiscoveryUrl, cfg.GetDiscoveryUrl())
	assert.Equal(t, 10*time.Second, cfg.GetDeviceTimeout())
	assert.True(t, cfg.GetCameraMonitor())
	assert.False(t, cfg.GetDebug())
}

func TestNewUserConfigLoadsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), IniFilename)
	t.Setenv(UserConfigEnv, path)

	data := "[pixoonair]\ncamera_monitor = false\nconsole_logging = true\n\n[api]\nport = 9000\n\n[device]\ntimeout = 3\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := NewUserConfig(DefaultUserConfig())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.GetApiPort())
	assert.False(t, cfg.GetCameraMonitor())
	assert.True(t, cfg.GetConsoleLogging())
	assert.Equal(t, 3*time.Second, cfg.GetDeviceTimeout())
	// not present in the file, keeps the default
	assert.Equal(t, DefaultDiscoveryUrl, cfg.GetDiscoveryUrl())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), IniFilename)
	t.Setenv(UserConfigEnv, path)

	cfg, err := NewUserConfig(DefaultUserConfig())
	require.NoError(t, err)

	cfg.SetApiPort("7600")
	cfg.SetCameraMonitor(false)
	cfg.SetDiscoveryUrl("http://127.0.0.1:1/discover")
	require.NoError(t, cfg.SaveConfig())

	loaded, err := NewUserConfig(DefaultUserConfig())
	require.NoError(t, err)

	assert.Equal(t, "7600", loaded.GetApiPort())
	assert.False(t, loaded.GetCameraMonitor())
	assert.Equal(t, "http://127.0.0.1:1/discover", loaded.GetDiscoveryUrl())
}

func TestEmptyValuesFallBackToDefaults(t *testing.T) {
	cfg := &UserConfig{}
	assert.Equal(t, DefaultApiPort, cfg.GetApiPort())
	assert.Equal(t, DefaultDiscoveryUrl, cfg.GetDiscoveryUrl())
	assert.Equal(t, DefaultDeviceTimeout*time.Second, cfg.GetDeviceTimeout())
}

func TestStartWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), IniFilename)
	t.Setenv(UserConfigEnv, path)

	cfg, err := NewUserConfig(DefaultUserConfig())
	require.NoError(t, err)

	reloaded := make(chan string, 4)
	stop, err := StartWatcher(cfg, func(c *UserConfig) {
		reloaded <- c.GetApiPort()
	})
	require.NoError(t, err)
	defer func() {
		_ = stop()
	}()

	data := "[api]\nport = 7777\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	select {
	case port := <-reloaded:
		assert.Equal(t, "7777", port)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}
