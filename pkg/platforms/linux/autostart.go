package linux

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/rs/zerolog/log"
	"gopkg.in/ini.v1"
)

const desktopSection = "Desktop Entry"

// ErrUnsupportedExec is returned for executable paths a .desktop file
// cannot hold.
var ErrUnsupportedExec = errors.New("executable path cannot be used in a desktop entry")

// quoteExec quotes path as a single Exec argument. Reserved characters are
// backslash escaped inside the quotes, then backslashes are escaped again
// for the string value and percent signs are doubled so they are not read
// as field codes.
func quoteExec(path string) (string, error) {
	// ini writes these as multi-line values
	if strings.ContainsAny(path, "\n\r`") {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExec, path)
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, r := range path {
		if strings.ContainsRune(`"$\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')

	quoted := strings.ReplaceAll(b.String(), `\`, `\\`)
	return strings.ReplaceAll(quoted, "%", "%%"), nil
}

// autostartDir follows the XDG autostart spec: $XDG_CONFIG_HOME/autostart,
// falling back to ~/.config/autostart.
func autostartDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "autostart"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "autostart"), nil
}

// DesktopEntry registers the app through an XDG autostart .desktop file.
type DesktopEntry struct {
	Path string
	Name string
	Exec string
}

func (d *DesktopEntry) IsEnabled() (bool, error) {
	if _, err := os.Stat(d.Path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, d.Path)
	if err != nil {
		return false, fmt.Errorf("%w: %v", autostart.ErrPlatformUnavailable, err)
	}

	sec, err := cfg.GetSection(desktopSection)
	if err != nil {
		log.Warn().Str("path", d.Path).Msg("autostart entry has no desktop section")
		return false, nil
	}

	if sec.Key("Hidden").MustBool(false) {
		return false, nil
	}

	return sec.Key("X-GNOME-Autostart-enabled").MustBool(true), nil
}

func (d *DesktopEntry) Enable() error {
	exec, err := quoteExec(d.Exec)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(d.Path), 0755)
	if err != nil {
		return fmt.Errorf("%w: %v", autostart.ErrPlatformUnavailable, err)
	}

	cfg := ini.Empty(ini.LoadOptions{IgnoreInlineComment: true})
	sec, err := cfg.NewSection(desktopSection)
	if err != nil {
		return err
	}

	for _, kv := range [][2]string{
		{"Type", "Application"},
		{"Name", d.Name},
		{"Exec", exec},
		{"Terminal", "false"},
		{"Hidden", "false"},
		{"X-GNOME-Autostart-enabled", "true"},
	} {
		_, err := sec.NewKey(kv[0], kv[1])
		if err != nil {
			return err
		}
	}

	// plain Key=value lines, as desktop files are usually written
	ini.PrettyFormat = false
	ini.PrettyEqual = false

	err = cfg.SaveTo(d.Path)
	if err != nil {
		return err
	}

	log.Info().Str("path", d.Path).Msg("autostart entry written")
	return nil
}

func (d *DesktopEntry) Disable() error {
	err := os.Remove(d.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	log.Info().Str("path", d.Path).Msg("autostart entry removed")
	return nil
}
