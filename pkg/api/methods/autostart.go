package methods

import (
	"errors"

	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/api/models/requests"
	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/rs/zerolog/log"
)

func HandleAutoStart(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received autostart request")

	enabled, err := env.Platform.AutoStart().IsEnabled()
	if errors.Is(err, autostart.ErrPlatformUnavailable) {
		return models.AutoStartResponse{}, nil
	} else if err != nil {
		return nil, err
	}

	return models.AutoStartResponse{
		Enabled:   enabled,
		Supported: true,
	}, nil
}

func HandleAutoStartEnable(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received autostart enable request")
	return nil, env.Platform.AutoStart().Enable()
}

func HandleAutoStartDisable(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received autostart disable request")
	return nil, env.Platform.AutoStart().Disable()
}
