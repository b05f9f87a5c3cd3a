package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	Version        = "0.3.0"
	AppName        = "pixoonair"
	AppId          = "com.pixoonair.app"
	DbFilename     = "pixoonair.db"
	LogFilename    = "pixoonair.log"
	LockFilename   = "pixoonair.lock"
	IniFilename    = "pixoonair.ini"
	DefaultApiPort = "7498"
)

// DbOpenTimeout bounds the wait for another process holding the db file.
const DbOpenTimeout = 2 * time.Second

// ConfigDir returns the per-user folder holding the ini file and database.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.Warn().Err(err).Msg("user config dir unavailable, using temp dir")
		return TempDir()
	}
	return filepath.Join(dir, AppName)
}

func TempDir() string {
	path := filepath.Join(os.TempDir(), AppName)
	err := os.MkdirAll(path, 0755)
	if err != nil {
		log.Error().Err(err).Msg("error creating temp folder")
	}
	return path
}
