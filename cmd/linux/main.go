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

package main

import (
	"fmt"
	"os"

	"github.com/pixoonair/pixoonair/pkg/api/client"
	"github.com/pixoonair/pixoonair/pkg/cli"
	"github.com/pixoonair/pixoonair/pkg/config"
	"github.com/pixoonair/pixoonair/pkg/platforms/linux"
	"github.com/pixoonair/pixoonair/pkg/service"
	"github.com/pixoonair/pixoonair/pkg/ui"
	"github.com/pixoonair/pixoonair/pkg/utils"
	"github.com/rs/zerolog/log"
)

func main() {
	pl := &linux.Platform{}
	flags := cli.SetupFlags()

	flags.Pre(pl)
	cfg := cli.Setup(pl, config.DefaultUserConfig())
	flags.Post(cfg, pl)

	if *flags.Panel {
		store := client.NewSettingsStore(client.LocalAddr(cfg))
		err := ui.RunPanel(store, pl.AutoStart())
		if err != nil {
			log.Error().Msgf("error running settings panel: %s", err)
			fmt.Println("Error running settings panel:", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	fmt.Println("Pixoonair v" + config.Version)
	fmt.Println("Press Ctrl+C to exit")

	err := utils.RunService(pl.DataDir(), func() (func() error, error) {
		return service.Start(pl, cfg)
	})
	if err != nil {
		log.Error().Msgf("error running service: %s", err)
		fmt.Println("Error running service:", err)
		os.Exit(1)
	}

	os.Exit(0)
}
