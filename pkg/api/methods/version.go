package methods

import (
	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/api/models/requests"
	"github.com/pixoonair/pixoonair/pkg/config"
	"github.com/rs/zerolog/log"
)

func HandleVersion(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received version request")
	return models.VersionResponse{
		Version:  config.Version,
		Platform: env.Platform.Id(),
	}, nil
}
