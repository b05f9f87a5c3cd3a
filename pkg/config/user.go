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

package config

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/ini.v1"
)

const UserConfigEnv = "PIXOONAIR_CONFIG"

const (
	DefaultDiscoveryUrl  = "https://app.divoom-gz.com/Device/ReturnSameLANDevice"
	DefaultDeviceTimeout = 10
)

type PixoonairConfig struct {
	Debug          bool `ini:"debug"`
	ConsoleLogging bool `ini:"console_logging"`
	CameraMonitor  bool `ini:"camera_monitor"`
}

type ApiConfig struct {
	Port string `ini:"port"`
}

type DeviceConfig struct {
	DiscoveryUrl string `ini:"discovery_url"`
	Timeout      int    `ini:"timeout"` // seconds
}

type UserConfig struct {
	mu        sync.RWMutex
	IniPath   string          `ini:"-"`
	Pixoonair PixoonairConfig `ini:"pixoonair"`
	Api       ApiConfig       `ini:"api"`
	Device    DeviceConfig    `ini:"device"`
}

// DefaultUserConfig returns the values written to disk on first run.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Pixoonair: PixoonairConfig{
			CameraMonitor: true,
		},
		Api: ApiConfig{
			Port: DefaultApiPort,
		},
		Device: DeviceConfig{
			DiscoveryUrl: DefaultDiscoveryUrl,
			Timeout:      DefaultDeviceTimeout,
		},
	}
}

func (c *UserConfig) GetDebug() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Pixoonair.Debug
}

func (c *UserConfig) SetDebug(debug bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Pixoonair.Debug = debug
	applyLogLevel(debug)
}

func applyLogLevel(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func (c *UserConfig) GetConsoleLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Pixoonair.ConsoleLogging
}

func (c *UserConfig) GetCameraMonitor() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Pixoonair.CameraMonitor
}

func (c *UserConfig) SetCameraMonitor(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Pixoonair.CameraMonitor = enabled
}

func (c *UserConfig) GetApiPort() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Api.Port == "" {
		return DefaultApiPort
	}
	return c.Api.Port
}

func (c *UserConfig) SetApiPort(port string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Api.Port = port
}

func (c *UserConfig) GetDiscoveryUrl() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Device.DiscoveryUrl == "" {
		return DefaultDiscoveryUrl
	}
	return c.Device.DiscoveryUrl
}

func (c *UserConfig) SetDiscoveryUrl(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Device.DiscoveryUrl = url
}

func (c *UserConfig) GetDeviceTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Device.Timeout <= 0 {
		return DefaultDeviceTimeout * time.Second
	}
	return time.Duration(c.Device.Timeout) * time.Second
}

func (c *UserConfig) LoadConfig() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg, err := ini.ShadowLoad(c.IniPath)
	if err != nil {
		return err
	}

	err = cfg.StrictMapTo(c)
	if err != nil {
		return err
	}

	applyLogLevel(c.Pixoonair.Debug)

	return nil
}

func (c *UserConfig) SaveConfig() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := ini.Empty()

	ini.PrettyEqual = true
	ini.PrettyFormat = false

	err := cfg.ReflectFrom(c)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(c.IniPath), 0755)
	if err != nil {
		return err
	}

	return cfg.SaveTo(c.IniPath)
}

// NewUserConfig resolves the ini path, writes the defaults to disk if no
// config exists yet, and otherwise loads the existing file over them.
func NewUserConfig(defaultConfig *UserConfig) (*UserConfig, error) {
	iniPath := os.Getenv(UserConfigEnv)
	if iniPath == "" {
		iniPath = filepath.Join(ConfigDir(), IniFilename)
	}

	defaultConfig.IniPath = iniPath

	if _, err := os.Stat(iniPath); os.IsNotExist(err) {
		// create a blank one on disk
		err := defaultConfig.SaveConfig()
		if err != nil {
			log.Error().Err(err).Msg("failed to save new user config to disk")
			return defaultConfig, err
		}

		return defaultConfig, nil
	}

	err := defaultConfig.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("failed to load user config")
		return defaultConfig, err
	}

	return defaultConfig, nil
}
