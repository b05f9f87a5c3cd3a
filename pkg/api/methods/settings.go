package methods

import (
	"encoding/json"
	"errors"

	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/api/models/requests"
	"github.com/pixoonair/pixoonair/pkg/settings"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingParams = errors.New("missing params")
	ErrInvalidParams = errors.New("invalid params")
)

// SettingsResponse converts a record to its wire form.
func SettingsResponse(s settings.Settings) models.SettingsResponse {
	return models.SettingsResponse{
		TargetDeviceName: s.TargetDeviceName,
		GifFileId:        s.GifFileId,
		GifFileUrl:       s.GifFileUrl,
		GifFileType:      string(s.GifFileType),
	}
}

func HandleLoadSettings(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received load settings request")

	s, err := env.Database.LoadSettings()
	if errors.Is(err, settings.ErrCorrupt) {
		// defaults are still usable, the next save replaces the record
		log.Warn().Err(err).Msg("stored settings corrupt, returning defaults")
	} else if err != nil {
		log.Error().Err(err).Msg("error loading settings")
		return nil, err
	}

	return SettingsResponse(s), nil
}

// SettingsFromParams checks every field of a save request is present.
func SettingsFromParams(params models.SaveSettingsParams) (settings.Settings, error) {
	if params.TargetDeviceName == nil ||
		params.GifFileId == nil ||
		params.GifFileUrl == nil ||
		params.GifFileType == nil {
		return settings.Settings{}, ErrMissingParams
	}

	t, ok := settings.ParseGifFileType(*params.GifFileType)
	if !ok {
		return settings.Settings{}, ErrInvalidParams
	}

	return settings.Settings{
		TargetDeviceName: *params.TargetDeviceName,
		GifFileId:        *params.GifFileId,
		GifFileUrl:       *params.GifFileUrl,
		GifFileType:      t,
	}, nil
}

// ParseSaveSettings decodes save_settings params into a full record.
func ParseSaveSettings(data []byte) (settings.Settings, error) {
	if len(data) == 0 {
		return settings.Settings{}, ErrMissingParams
	}

	var params models.SaveSettingsParams
	err := json.Unmarshal(data, &params)
	if err != nil {
		return settings.Settings{}, ErrInvalidParams
	}

	return SettingsFromParams(params)
}

// SaveSettings stores s and tells connected clients about it.
func SaveSettings(env requests.RequestEnv, s settings.Settings) error {
	err := env.Database.SaveSettings(s)
	if err != nil {
		log.Error().Err(err).Msg("error saving settings")
		return err
	}

	log.Info().
		Str("targetDeviceName", s.TargetDeviceName).
		Str("gifFileType", string(s.GifFileType)).
		Msg("settings saved")
	env.Notify(models.SettingsSaved, SettingsResponse(s))

	return nil
}

func HandleSaveSettings(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received save settings request")

	s, err := ParseSaveSettings(env.Params)
	if err != nil {
		return nil, err
	}

	return nil, SaveSettings(env, s)
}
