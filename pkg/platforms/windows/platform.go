//go:build windows

package windows

import (
	"os"
	"path/filepath"

	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/pixoonair/pixoonair/pkg/camera"
	"github.com/pixoonair/pixoonair/pkg/config"
)

type Platform struct{}

func (p *Platform) Id() string {
	return "windows"
}

func (p *Platform) DataDir() string {
	return config.ConfigDir()
}

func (p *Platform) LogDir() string {
	return filepath.Join(config.ConfigDir(), "logs")
}

func (p *Platform) ExecPath() string {
	exe, err := os.Executable()
	if err != nil {
		return config.AppName + ".exe"
	}
	return exe
}

func (p *Platform) AutoStart() autostart.Manager {
	return &RunKey{
		Name: "Pixoonair",
		Exec: p.ExecPath(),
	}
}

func (p *Platform) CameraMonitor() camera.Monitor {
	return nil
}
