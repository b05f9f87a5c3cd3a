package utils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pixoonair/pixoonair/pkg/config"
	"github.com/rs/zerolog/log"
)

var ErrAlreadyRunning = errors.New("another instance is already running")

// LockInstance takes an exclusive lock on a file in dir. The returned func
// releases it.
func LockInstance(dir string) (func() error, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, config.LockFilename)
	lock := flock.New(path)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, err
	} else if !locked {
		return nil, ErrAlreadyRunning
	}

	log.Debug().Str("path", path).Msg("instance lock acquired")
	return lock.Unlock, nil
}
