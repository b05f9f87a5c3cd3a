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

package service

import (
	"context"
	"errors"
	"time"

	"github.com/pixoonair/pixoonair/pkg/api"
	"github.com/pixoonair/pixoonair/pkg/api/models/requests"
	"github.com/pixoonair/pixoonair/pkg/config"
	"github.com/pixoonair/pixoonair/pkg/database"
	"github.com/pixoonair/pixoonair/pkg/onair"
	"github.com/pixoonair/pixoonair/pkg/pixoo"
	"github.com/pixoonair/pixoonair/pkg/platforms"
	"github.com/pixoonair/pixoonair/pkg/service/state"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// changeMode activates mode on the target device using the stored settings.
func changeMode(
	ctx context.Context,
	db *database.Database,
	st *state.State,
	act *onair.Activator,
	mode onair.Mode,
) {
	if st.ShouldStopService() {
		log.Debug().Str("mode", string(mode)).Msg("service stopping, ignoring display change")
		return
	}

	s, err := db.LoadSettings()
	if err != nil {
		log.Warn().Err(err).Msg("error loading settings for display change")
	}

	err = act.Activate(ctx, mode, s)
	if err != nil {
		log.Error().Err(err).Str("mode", string(mode)).Msg("error changing display mode")
		return
	}

	st.SetMode(mode)
}

func startCameraMonitor(
	ctx context.Context,
	pl platforms.Platform,
	cfg *config.UserConfig,
	db *database.Database,
	st *state.State,
	act *onair.Activator,
) {
	if !cfg.GetCameraMonitor() {
		log.Info().Msg("camera monitor disabled in config")
		return
	}

	monitor := pl.CameraMonitor()
	if monitor == nil {
		log.Info().Str("platform", pl.Id()).Msg("camera monitor not supported on platform")
		return
	}

	err := monitor.Start(
		ctx,
		func() { go changeMode(ctx, db, st, act, onair.ModeOnAir) },
		func() { go changeMode(ctx, db, st, act, onair.ModeNormal) },
	)
	if err != nil {
		log.Error().Err(err).Msg("error starting camera monitor")
	}
}

func Start(
	pl platforms.Platform,
	cfg *config.UserConfig,
) (func() error, error) {
	log.Info().Msgf("Pixoonair v%s", config.Version)
	log.Info().Msgf("config path = %s", cfg.IniPath)
	log.Info().Msgf("data path = %s", pl.DataDir())
	log.Info().Msgf("api port = %s", cfg.GetApiPort())
	log.Info().Msgf("camera_monitor = %t", cfg.GetCameraMonitor())
	log.Info().Msgf("discovery_url = %s", cfg.GetDiscoveryUrl())
	log.Info().Msgf("debug = %t", cfg.GetDebug())

	if !database.DbExists(pl) {
		log.Info().Msg("no database found, creating a new one")
	}

	log.Debug().Msg("opening database")
	db, err := database.Open(pl)
	if err != nil {
		log.Error().Err(err).Msgf("error opening database")
		return nil, err
	}

	st, ns := state.NewState()
	display := pixoo.NewClient(cfg.GetDiscoveryUrl(), cfg.GetDeviceTimeout())
	act := onair.NewActivator(display, db)

	ctx, cancel := context.WithCancel(context.Background())

	env := requests.RequestEnv{
		Platform:  pl,
		Config:    cfg,
		State:     st,
		Database:  db,
		Activator: act,
	}

	srv, err := api.Start(ctx, env, ns)
	if err != nil {
		log.Error().Err(err).Msg("error starting api server")
		cancel()
		_ = db.Close()
		return nil, err
	}

	stopWatcher, err := config.StartWatcher(cfg, func(c *config.UserConfig) {
		log.Info().
			Bool("debug", c.GetDebug()).
			Bool("camera_monitor", c.GetCameraMonitor()).
			Msg("config reloaded, restart to apply api and device changes")
	})
	if err != nil {
		log.Warn().Err(err).Msg("error starting config watcher")
		stopWatcher = func() error { return nil }
	}

	startCameraMonitor(ctx, pl, cfg, db, st, act)

	return func() error {
		st.StopService()
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var g errgroup.Group
		g.Go(func() error {
			return srv.Shutdown(shutdownCtx)
		})
		g.Go(stopWatcher)
		stopErr := g.Wait()
		if stopErr != nil {
			log.Warn().Err(stopErr).Msg("error stopping service")
		}

		return errors.Join(stopErr, db.Close())
	}, nil
}
