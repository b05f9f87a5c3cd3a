package platforms

import (
	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/pixoonair/pixoonair/pkg/camera"
)

type Platform interface {
	Id() string
	// DataDir holds the settings database and lock file.
	DataDir() string
	LogDir() string
	// ExecPath is the binary registered for autostart.
	ExecPath() string
	AutoStart() autostart.Manager
	// CameraMonitor returns nil when camera state cannot be observed.
	CameraMonitor() camera.Monitor
}
