// Package settings defines the settings record shared by the host and the
// panel: which device to drive and which GIF to send to it.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

var (
	ErrBackendUnavailable = errors.New("settings backend unavailable")
	ErrCorrupt            = errors.New("settings record corrupt")
)

type GifFileType string

const (
	GifFileTypeId  GifFileType = "id"
	GifFileTypeUrl GifFileType = "url"
)

var GifFileTypes = []GifFileType{GifFileTypeId, GifFileTypeUrl}

// ParseGifFileType returns false for anything other than a known type.
func ParseGifFileType(s string) (GifFileType, bool) {
	t := GifFileType(s)
	if !slices.Contains(GifFileTypes, t) {
		return "", false
	}
	return t, true
}

type Settings struct {
	TargetDeviceName string      `json:"targetDeviceName"`
	GifFileId        string      `json:"gifFileId"`
	GifFileUrl       string      `json:"gifFileUrl"`
	GifFileType      GifFileType `json:"gifFileType"`
}

func Defaults() Settings {
	return Settings{
		GifFileType: GifFileTypeId,
	}
}

// WithDefaults fills every zero field of s from Defaults. An unknown GIF
// type counts as unset.
func WithDefaults(s Settings) Settings {
	if _, ok := ParseGifFileType(string(s.GifFileType)); !ok {
		s.GifFileType = ""
	}

	err := mergo.Merge(&s, Defaults())
	if err != nil {
		// only possible with mismatched types
		log.Error().Err(err).Msg("error merging settings defaults")
	}

	return s
}

// ActiveGif returns the id or URL selected by the GIF type. The other field
// is kept but has no meaning downstream.
func (s Settings) ActiveGif() string {
	switch s.GifFileType {
	case GifFileTypeUrl:
		return s.GifFileUrl
	default:
		return s.GifFileId
	}
}

var fieldNames = []string{
	"targetDeviceName",
	"gifFileId",
	"gifFileUrl",
	"gifFileType",
}

// Decode reads a stored or transmitted settings record. Only a payload that
// is not a JSON object at all is ErrCorrupt; missing fields and fields with
// the wrong shape are replaced with their defaults.
func Decode(data []byte) (Settings, error) {
	var raw map[string]json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return Defaults(), fmt.Errorf("%w: %v", ErrCorrupt, err)
	} else if raw == nil {
		return Defaults(), fmt.Errorf("%w: record is null", ErrCorrupt)
	}

	values := make(map[string]string, len(fieldNames))
	for _, name := range fieldNames {
		v, ok := raw[name]
		if !ok {
			continue
		}

		var s string
		err := json.Unmarshal(v, &s)
		if err != nil {
			log.Warn().Str("field", name).Msg("settings field not a string, using default")
			continue
		}

		values[name] = s
	}

	s := Settings{
		TargetDeviceName: values["targetDeviceName"],
		GifFileId:        values["gifFileId"],
		GifFileUrl:       values["gifFileUrl"],
		GifFileType:      GifFileType(values["gifFileType"]),
	}

	if s.GifFileType != "" {
		if _, ok := ParseGifFileType(string(s.GifFileType)); !ok {
			log.Warn().Str("gifFileType", string(s.GifFileType)).Msg("unknown gif file type, using default")
		}
	}

	return WithDefaults(s), nil
}
