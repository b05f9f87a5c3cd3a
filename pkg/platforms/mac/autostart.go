package mac

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/rs/zerolog/log"
	"howett.net/plist"
)

type launchAgentPlist struct {
	Label            string   `plist:"Label"`
	ProgramArguments []string `plist:"ProgramArguments"`
	RunAtLoad        bool     `plist:"RunAtLoad"`
	ProcessType      string   `plist:"ProcessType"`
}

// LaunchAgent registers the app as a per-user launchd agent. Agents in
// ~/Library/LaunchAgents with RunAtLoad are started at login.
type LaunchAgent struct {
	Path    string
	Label   string
	Program string
}

func (a *LaunchAgent) render() ([]byte, error) {
	return plist.MarshalIndent(&launchAgentPlist{
		Label:            a.Label,
		ProgramArguments: []string{a.Program},
		RunAtLoad:        true,
		ProcessType:      "Interactive",
	}, plist.XMLFormat, "\t")
}

func (a *LaunchAgent) IsEnabled() (bool, error) {
	_, err := os.Stat(a.Path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("%w: %v", autostart.ErrPlatformUnavailable, err)
	}
	return true, nil
}

func (a *LaunchAgent) Enable() error {
	data, err := a.render()
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(a.Path)
	if err == nil && bytes.Equal(existing, data) {
		return nil
	}

	err = os.MkdirAll(filepath.Dir(a.Path), 0755)
	if err != nil {
		return fmt.Errorf("%w: %v", autostart.ErrPlatformUnavailable, err)
	}

	err = os.WriteFile(a.Path, data, 0644)
	if err != nil {
		return err
	}

	log.Info().Str("path", a.Path).Msg("launch agent written")
	return nil
}

func (a *LaunchAgent) Disable() error {
	err := os.Remove(a.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	log.Info().Str("path", a.Path).Msg("launch agent removed")
	return nil
}
