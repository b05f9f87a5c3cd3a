package linux

import (
	"os"
	"path/filepath"

	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/pixoonair/pixoonair/pkg/camera"
	"github.com/pixoonair/pixoonair/pkg/config"
)

type Platform struct{}

func (p *Platform) Id() string {
	return "linux"
}

func (p *Platform) DataDir() string {
	return config.ConfigDir()
}

func (p *Platform) LogDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(config.TempDir(), "logs")
	}
	return filepath.Join(dir, config.AppName)
}

func (p *Platform) ExecPath() string {
	exe, err := os.Executable()
	if err != nil {
		return config.AppName
	}
	return exe
}

func (p *Platform) AutoStart() autostart.Manager {
	dir, err := autostartDir()
	if err != nil {
		return autostart.Unsupported{}
	}

	return &DesktopEntry{
		Path: filepath.Join(dir, config.AppName+".desktop"),
		Name: "Pixoonair",
		Exec: p.ExecPath(),
	}
}

func (p *Platform) CameraMonitor() camera.Monitor {
	return nil
}
