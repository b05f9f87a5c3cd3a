package methods

import (
	"encoding/json"
	"errors"

	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/api/models/requests"
	"github.com/pixoonair/pixoonair/pkg/database"
	"github.com/rs/zerolog/log"
)

func HandleHistory(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received history request")

	maxResults := database.DefaultHistoryResults
	if len(env.Params) > 0 {
		var params models.HistoryParams
		err := json.Unmarshal(env.Params, &params)
		if err != nil {
			return nil, ErrInvalidParams
		}
		if params.MaxResults != nil && *params.MaxResults > 0 {
			maxResults = *params.MaxResults
		}
	}

	entries, err := env.Database.GetHistory(maxResults)
	if err != nil {
		log.Error().Err(err).Msgf("error getting history")
		return nil, errors.New("error getting history")
	}

	resp := models.HistoryResponse{
		Entries: make([]models.HistoryResponseEntry, len(entries)),
	}

	for i, e := range entries {
		resp.Entries[i] = models.HistoryResponseEntry{
			Time:    e.Time,
			Mode:    e.Mode,
			Device:  e.Device,
			Gif:     e.Gif,
			Success: e.Success,
			Error:   e.Error,
		}
	}

	return resp, nil
}
