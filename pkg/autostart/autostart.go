// Package autostart describes the OS registration that launches the app at
// user login. Implementations live with each platform.
package autostart

import "errors"

var ErrPlatformUnavailable = errors.New("autostart unavailable on this platform")

// Manager queries and changes the login registration. Enable and Disable
// must be idempotent: repeating either is a no-op, not an error.
type Manager interface {
	IsEnabled() (bool, error)
	Enable() error
	Disable() error
}

// Set calls Enable or Disable to match the given state.
func Set(m Manager, enabled bool) error {
	if enabled {
		return m.Enable()
	}
	return m.Disable()
}

// Unsupported is the Manager for platforms with no login mechanism. Every
// call fails with ErrPlatformUnavailable.
type Unsupported struct{}

func (Unsupported) IsEnabled() (bool, error) {
	return false, ErrPlatformUnavailable
}

func (Unsupported) Enable() error {
	return ErrPlatformUnavailable
}

func (Unsupported) Disable() error {
	return ErrPlatformUnavailable
}
