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

package cli

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pixoonair/pixoonair/pkg/api/client"
	"github.com/pixoonair/pixoonair/pkg/api/models"
	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/pixoonair/pixoonair/pkg/config"
	"github.com/pixoonair/pixoonair/pkg/database"
	"github.com/pixoonair/pixoonair/pkg/onair"
	"github.com/pixoonair/pixoonair/pkg/platforms"
	"github.com/pixoonair/pixoonair/pkg/utils"
	"github.com/rs/zerolog/log"
)

// large enough to cover any realistic history
const exportMaxResults = 1 << 20

type Flags struct {
	Api           *string
	AutoStart     *string
	Mode          *string
	ExportHistory *string
	Panel         *bool
	Version       *bool
}

// SetupFlags defines all common CLI flags between platforms.
func SetupFlags() *Flags {
	return &Flags{
		Api: flag.String(
			"api",
			"",
			"send method and params to API and print response",
		),
		AutoStart: flag.String(
			"autostart",
			"",
			"show or change launch at login: status, enable or disable",
		),
		Mode: flag.String(
			"mode",
			"",
			"switch the display mode: normal or onAir",
		),
		ExportHistory: flag.String(
			"export-history",
			"",
			"write display mode history as CSV to the given file (- for stdout)",
		),
		Panel: flag.Bool(
			"panel",
			false,
			"open the settings panel for the running service",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre(pl platforms.Platform) {
	flag.Parse()

	if *f.Version {
		fmt.Printf("Pixoonair v%s (%s)\n", config.Version, pl.Id())
		os.Exit(0)
	}
}

func exitErr(msg string, err error) {
	log.Error().Err(err).Msg(strings.ToLower(msg))
	_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

// RunAutoStart handles the -autostart flag against the local platform.
func RunAutoStart(m autostart.Manager, action string) (string, error) {
	switch action {
	case "status":
		enabled, err := m.IsEnabled()
		if errors.Is(err, autostart.ErrPlatformUnavailable) {
			return "unsupported", nil
		} else if err != nil {
			return "", err
		} else if enabled {
			return "enabled", nil
		}
		return "disabled", nil
	case "enable":
		return "enabled", m.Enable()
	case "disable":
		return "disabled", m.Disable()
	default:
		return "", fmt.Errorf("unknown autostart action: %s", action)
	}
}

func exportHistory(cfg *config.UserConfig, path string) error {
	data, err := json.Marshal(&models.HistoryParams{
		MaxResults: func(i int) *int { return &i }(exportMaxResults),
	})
	if err != nil {
		return err
	}

	resp, err := client.LocalClient(cfg, models.MethodHistory, string(data))
	if err != nil {
		return err
	}

	var history models.HistoryResponse
	err = json.Unmarshal([]byte(resp), &history)
	if err != nil {
		return err
	}

	// oldest first
	entries := make([]database.HistoryEntry, 0, len(history.Entries))
	for i := len(history.Entries) - 1; i >= 0; i-- {
		e := history.Entries[i]
		entries = append(entries, database.HistoryEntry{
			Time:    e.Time,
			Mode:    e.Mode,
			Device:  e.Device,
			Gif:     e.Gif,
			Success: e.Success,
			Error:   e.Error,
		})
	}

	if path == "-" {
		return database.WriteHistoryCsv(os.Stdout, entries)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	err = database.WriteHistoryCsv(f, entries)
	if err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Post actions all remaining common flags that require the environment to be
// set up. Logging is allowed.
func (f *Flags) Post(cfg *config.UserConfig, pl platforms.Platform) {
	if *f.Api != "" {
		ps := strings.SplitN(*f.Api, ":", 2)
		method := ps[0]
		params := ""
		if len(ps) > 1 {
			params = ps[1]
		}

		resp, err := client.LocalClient(cfg, method, params)
		if err != nil {
			exitErr("Error calling API", err)
		}

		fmt.Println(resp)
		os.Exit(0)
	} else if *f.AutoStart != "" {
		status, err := RunAutoStart(pl.AutoStart(), *f.AutoStart)
		if err != nil {
			exitErr("Error changing autostart", err)
		}

		fmt.Println("Autostart:", status)
		os.Exit(0)
	} else if *f.Mode != "" {
		mode, ok := onair.ParseMode(*f.Mode)
		if !ok {
			_, _ = fmt.Fprintf(os.Stderr, "Unknown mode: %s\n", *f.Mode)
			os.Exit(1)
		}

		data, err := json.Marshal(&models.DisplayModeParams{
			Mode: string(mode),
		})
		if err != nil {
			exitErr("Error encoding params", err)
		}

		_, err = client.LocalClient(cfg, models.MethodChangeDisplay, string(data))
		if err != nil {
			exitErr("Error changing display mode", err)
		}

		os.Exit(0)
	} else if *f.ExportHistory != "" {
		err := exportHistory(cfg, *f.ExportHistory)
		if err != nil {
			exitErr("Error exporting history", err)
		}

		os.Exit(0)
	}
}

// Setup initializes the user config and logging. Returns a user config object.
func Setup(pl platforms.Platform, defaultConfig *config.UserConfig) *config.UserConfig {
	cfg, err := config.NewUserConfig(defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	err = utils.InitLogging(cfg, pl)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	return cfg
}
