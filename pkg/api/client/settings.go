package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/settings"
)

// SettingsStore reads and writes the settings record through the running
// host's API.
type SettingsStore struct {
	Addr string
}

func NewSettingsStore(addr string) *SettingsStore {
	return &SettingsStore{Addr: addr}
}

func unavailable(err error) error {
	if errors.Is(err, settings.ErrBackendUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", settings.ErrBackendUnavailable, err)
}

func (s *SettingsStore) Load(ctx context.Context) (settings.Settings, error) {
	res, err := Call(ctx, s.Addr, models.MethodLoadSettings, nil)
	if err != nil {
		return settings.Defaults(), unavailable(err)
	}

	return settings.Decode(res)
}

func (s *SettingsStore) Save(ctx context.Context, v settings.Settings) error {
	gifFileType := string(v.GifFileType)
	params := models.SaveSettingsParams{
		TargetDeviceName: &v.TargetDeviceName,
		GifFileId:        &v.GifFileId,
		GifFileUrl:       &v.GifFileUrl,
		GifFileType:      &gifFileType,
	}

	_, err := Call(ctx, s.Addr, models.MethodSaveSettings, params)
	if err != nil {
		return unavailable(err)
	}

	return nil
}
