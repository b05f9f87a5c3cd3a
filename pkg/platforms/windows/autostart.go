//go:build windows

package windows

import (
	"errors"
	"fmt"

	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// RunKey registers the app under the current user's Run key, which
// Explorer reads at login.
type RunKey struct {
	Name string
	Exec string
}

func (r *RunKey) value() string {
	return `"` + r.Exec + `"`
}

func (r *RunKey) IsEnabled() (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("%w: %v", autostart.ErrPlatformUnavailable, err)
	}
	defer key.Close()

	_, _, err = key.GetStringValue(r.Name)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}

func (r *RunKey) Enable() error {
	key, _, err := registry.CreateKey(
		registry.CURRENT_USER,
		runKeyPath,
		registry.SET_VALUE|registry.QUERY_VALUE,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", autostart.ErrPlatformUnavailable, err)
	}
	defer key.Close()

	current, _, err := key.GetStringValue(r.Name)
	if err == nil && current == r.value() {
		return nil
	}

	err = key.SetStringValue(r.Name, r.value())
	if err != nil {
		return err
	}

	log.Info().Str("exec", r.Exec).Msg("run key set")
	return nil
}

func (r *RunKey) Disable() error {
	key, err := registry.OpenKey(
		registry.CURRENT_USER,
		runKeyPath,
		registry.SET_VALUE|registry.QUERY_VALUE,
	)
	if errors.Is(err, registry.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("%w: %v", autostart.ErrPlatformUnavailable, err)
	}
	defer key.Close()

	err = key.DeleteValue(r.Name)
	if errors.Is(err, registry.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	log.Info().Msg("run key removed")
	return nil
}
