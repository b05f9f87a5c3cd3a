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

// Package onair switches the target display between its normal channel and
// the configured "on air" GIF.
package onair

import (
	"context"
	"fmt"
	"time"

	"github.com/gobwas/glob"
	"github.com/pixoonair/pixoonair/pkg/database"
	"github.com/pixoonair/pixoonair/pkg/pixoo"
	"github.com/pixoonair/pixoonair/pkg/settings"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

type Mode string

const (
	ModeNormal Mode = "normal"
	ModeOnAir  Mode = "onAir"
)

var Modes = []Mode{ModeNormal, ModeOnAir}

func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	if !slices.Contains(Modes, m) {
		return "", false
	}
	return m, true
}

type Display interface {
	Devices(ctx context.Context) ([]pixoo.Device, error)
	PlayGif(ctx context.Context, ip string, url string) error
	PlayDivoomGif(ctx context.Context, ip string, fileId string) error
	CurrentChannel(ctx context.Context, ip string) (pixoo.Channel, error)
	SetChannel(ctx context.Context, ip string, ch pixoo.Channel) error
}

type Recorder interface {
	AddHistory(entry database.HistoryEntry) error
}

// FindDevice returns the device whose name equals name, or failing that the
// first whose name matches name as a glob pattern.
func FindDevice(devices []pixoo.Device, name string) (pixoo.Device, bool) {
	if name == "" {
		return pixoo.Device{}, false
	}

	for _, d := range devices {
		if d.DeviceName == name {
			return d, true
		}
	}

	g, err := glob.Compile(name)
	if err != nil {
		log.Debug().Err(err).Str("name", name).Msg("device name is not a valid pattern")
		return pixoo.Device{}, false
	}

	for _, d := range devices {
		if g.Match(d.DeviceName) {
			return d, true
		}
	}

	return pixoo.Device{}, false
}

type Activator struct {
	Display Display
	// History is optional.
	History Recorder
}

func NewActivator(display Display, history Recorder) *Activator {
	return &Activator{
		Display: display,
		History: history,
	}
}

// Activate puts the target device from s into mode. A target that is not on
// the network is logged and skipped, not treated as an error.
func (a *Activator) Activate(ctx context.Context, mode Mode, s settings.Settings) error {
	devices, err := a.Display.Devices(ctx)
	if err != nil {
		return fmt.Errorf("listing devices: %w", err)
	}

	device, ok := FindDevice(devices, s.TargetDeviceName)
	if !ok {
		log.Info().Str("target", s.TargetDeviceName).Msg("target device not found")
		return nil
	}

	log.Info().
		Uint64("id", device.DeviceId).
		Str("name", device.DeviceName).
		Str("ip", device.DevicePrivateIP).
		Str("mac", device.DeviceMac).
		Uint64("hardware", device.Hardware).
		Msg("device found")

	var gif string
	switch mode {
	case ModeNormal:
		err = a.normal(ctx, device)
	case ModeOnAir:
		gif, err = a.onAir(ctx, device, s)
	default:
		return fmt.Errorf("unknown display mode: %s", mode)
	}

	a.record(mode, device, gif, err)
	return err
}

func (a *Activator) normal(ctx context.Context, device pixoo.Device) error {
	ch, err := a.Display.CurrentChannel(ctx, device.DevicePrivateIP)
	if err != nil {
		return err
	} else if ch == pixoo.ChannelUnknown {
		return fmt.Errorf("%w: current channel is unknown", pixoo.ErrDevice)
	}

	// reselecting the current channel stops the gif
	return a.Display.SetChannel(ctx, device.DevicePrivateIP, ch)
}

func (a *Activator) onAir(ctx context.Context, device pixoo.Device, s settings.Settings) (string, error) {
	switch {
	case s.GifFileType == settings.GifFileTypeId && s.GifFileId != "":
		return s.GifFileId, a.Display.PlayDivoomGif(ctx, device.DevicePrivateIP, s.GifFileId)
	case s.GifFileType == settings.GifFileTypeUrl && s.GifFileUrl != "":
		return s.GifFileUrl, a.Display.PlayGif(ctx, device.DevicePrivateIP, s.GifFileUrl)
	default:
		log.Info().Msg("no gif configured")
		return "", nil
	}
}

func (a *Activator) record(mode Mode, device pixoo.Device, gif string, actErr error) {
	if a.History == nil {
		return
	}

	entry := database.HistoryEntry{
		Time:    time.Now(),
		Mode:    string(mode),
		Device:  device.DeviceName,
		Gif:     gif,
		Success: actErr == nil,
	}
	if actErr != nil {
		entry.Error = actErr.Error()
	}

	err := a.History.AddHistory(entry)
	if err != nil {
		log.Error().Err(err).Msg("error writing history entry")
	}
}
