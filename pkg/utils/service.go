/*
Pixoonair
Copyright (C) 2024 Pixoonair contributors

This file is part of Pixoonair.

Pixoonair is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Pixoonair is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Pixoonair.  If not, see <http://www.gnu.org/licenses/>.
*/

package utils

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

type ServiceEntry func() (func() error, error)

// RunService holds the instance lock in dir, starts the service and blocks
// until the process is interrupted or terminated, then stops it.
func RunService(dir string, entry ServiceEntry) error {
	unlock, err := LockInstance(dir)
	if err != nil {
		return err
	}
	defer func() {
		err := unlock()
		if err != nil {
			log.Warn().Err(err).Msg("error releasing instance lock")
		}
	}()

	log.Info().Msg("starting service")
	stop, err := entry()
	if err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	signal.Stop(sigs)

	log.Info().Str("signal", sig.String()).Msg("stopping service")
	return stop()
}
