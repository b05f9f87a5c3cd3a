package methods

import (
	"encoding/json"

	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/api/models/requests"
	"github.com/pixoonair/pixoonair/pkg/onair"
	"github.com/rs/zerolog/log"
)

func HandleChangeDisplayMode(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received change display mode request")

	if len(env.Params) == 0 {
		return nil, ErrMissingParams
	}

	var params models.DisplayModeParams
	err := json.Unmarshal(env.Params, &params)
	if err != nil {
		return nil, ErrInvalidParams
	}

	mode, ok := onair.ParseMode(params.Mode)
	if !ok {
		return nil, ErrInvalidParams
	}

	// corrupt records still decode to usable defaults
	s, err := env.Database.LoadSettings()
	if err != nil {
		log.Warn().Err(err).Msg("error loading settings for display change")
	}

	err = env.Activator.Activate(env.Context, mode, s)
	if err != nil {
		log.Error().Err(err).Str("mode", string(mode)).Msg("error changing display mode")
		return nil, err
	}

	env.State.SetMode(mode)
	return nil, nil
}

func HandleStatus(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received status request")

	mode, changed := env.State.GetMode()
	return models.DisplayResponse{
		Mode:    string(mode),
		Changed: changed,
	}, nil
}
