package linux

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(t *testing.T) *DesktopEntry {
	return &DesktopEntry{
		Path: filepath.Join(t.TempDir(), "autostart", "pixoonair.desktop"),
		Name: "Pixoonair",
		Exec: "/opt/pixoonair/pixoonair",
	}
}

func TestDesktopEntryLifecycle(t *testing.T) {
	d := newEntry(t)

	enabled, err := d.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, d.Enable())
	enabled, err = d.IsEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	data, err := os.ReadFile(d.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Desktop Entry]")
	assert.Contains(t, string(data), "/opt/pixoonair/pixoonair")

	require.NoError(t, d.Disable())
	enabled, err = d.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestDesktopEntryIdempotent(t *testing.T) {
	d := newEntry(t)

	require.NoError(t, d.Enable())
	require.NoError(t, d.Enable())
	enabled, err := d.IsEnabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, d.Disable())
	require.NoError(t, d.Disable())
	enabled, err = d.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestDesktopEntryHidden(t *testing.T) {
	d := newEntry(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(d.Path), 0755))

	data := "[Desktop Entry]\nType=Application\nExec=pixoonair\nHidden=true\n"
	require.NoError(t, os.WriteFile(d.Path, []byte(data), 0644))

	enabled, err := d.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	data = "[Desktop Entry]\nType=Application\nExec=pixoonair\nX-GNOME-Autostart-enabled=false\n"
	require.NoError(t, os.WriteFile(d.Path, []byte(data), 0644))

	enabled, err = d.IsEnabled()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestDesktopEntryQuotesExec(t *testing.T) {
	d := newEntry(t)
	d.Exec = "/home/user/My Apps/pixoonair"

	require.NoError(t, d.Enable())
	data, err := os.ReadFile(d.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"/home/user/My Apps/pixoonair"`)
}

func TestAutostartDirHonoursXdg(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := autostartDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "autostart"), got)
}

func TestDesktopEntryPlainKeys(t *testing.T) {
	d := newEntry(t)
	require.NoError(t, d.Enable())

	data, err := os.ReadFile(d.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\nType=Application\n")
	assert.Contains(t, string(data), "\nExec=\"/opt/pixoonair/pixoonair\"\n")
	assert.NotContains(t, string(data), " = ")
}

func TestQuoteExec(t *testing.T) {
	tests := map[string]struct {
		path string
		want string
	}{
		"plain":     {path: "/opt/pixoonair", want: `"/opt/pixoonair"`},
		"space":     {path: "/opt/My Apps/pixoonair", want: `"/opt/My Apps/pixoonair"`},
		"dollar":    {path: "/opt/$dir/pixoonair", want: `"/opt/\\$dir/pixoonair"`},
		"quote":     {path: `/opt/"x"/pixoonair`, want: `"/opt/\\"x\\"/pixoonair"`},
		"backslash": {path: `/opt/a\b`, want: `"/opt/a\\\\b"`},
		"percent":   {path: "/opt/100%/pixoonair", want: `"/opt/100%%/pixoonair"`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := quoteExec(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDesktopEntryRejectsBacktick(t *testing.T) {
	d := newEntry(t)
	d.Exec = "/opt/`pixoonair`"

	err := d.Enable()
	assert.True(t, errors.Is(err, ErrUnsupportedExec))
	assert.NoFileExists(t, d.Path)
}
