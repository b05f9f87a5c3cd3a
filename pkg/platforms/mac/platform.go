package mac

import (
	"os"
	"path/filepath"

	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/pixoonair/pixoonair/pkg/camera"
	"github.com/pixoonair/pixoonair/pkg/config"
)

type Platform struct{}

func (p *Platform) Id() string {
	return "mac"
}

func (p *Platform) DataDir() string {
	return config.ConfigDir()
}

func (p *Platform) LogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(config.TempDir(), "logs")
	}
	return filepath.Join(home, "Library", "Logs", config.AppName)
}

func (p *Platform) ExecPath() string {
	exe, err := os.Executable()
	if err != nil {
		return config.AppName
	}
	return exe
}

func (p *Platform) AutoStart() autostart.Manager {
	home, err := os.UserHomeDir()
	if err != nil {
		return autostart.Unsupported{}
	}

	return &LaunchAgent{
		Path:    filepath.Join(home, "Library", "LaunchAgents", config.AppId+".plist"),
		Label:   config.AppId,
		Program: p.ExecPath(),
	}
}

func (p *Platform) CameraMonitor() camera.Monitor {
	return &camera.LogStream{}
}
