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

// Package ui draws the settings panel in the terminal.
package ui

import (
	"context"
	"strings"

	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/pixoonair/pixoonair/pkg/config"
	"github.com/pixoonair/pixoonair/pkg/panel"
	"github.com/rs/zerolog/log"
	"github.com/rthornton128/goncurses"
	"github.com/wizzomafizzo/mrext/pkg/curses"
)

const (
	width  = 64
	height = 11
	// milliseconds between redraws while waiting for input
	pollInterval = 100
)

func toInput(ch goncurses.Key) (panel.Input, bool) {
	switch ch {
	case goncurses.KEY_UP:
		return panel.Input{Key: panel.KeyUp}, true
	case goncurses.KEY_DOWN:
		return panel.Input{Key: panel.KeyDown}, true
	case goncurses.KEY_LEFT:
		return panel.Input{Key: panel.KeyLeft}, true
	case goncurses.KEY_RIGHT:
		return panel.Input{Key: panel.KeyRight}, true
	case goncurses.KEY_TAB:
		return panel.Input{Key: panel.KeyTab}, true
	case goncurses.KEY_ENTER, 10, 13:
		return panel.Input{Key: panel.KeyEnter}, true
	case goncurses.KEY_ESC:
		return panel.Input{Key: panel.KeyEsc}, true
	case goncurses.KEY_BACKSPACE, 127, 8:
		return panel.Input{Key: panel.KeyBackspace}, true
	}

	if ch >= 32 && ch < 127 {
		return panel.Input{Key: panel.KeyRune, Rune: rune(ch)}, true
	}

	return panel.Input{}, false
}

func draw(win *goncurses.Window, f *panel.Form) error {
	printCenter := func(y int, text string) {
		win.MovePrint(y, (width-len(text))/2, text)
	}

	clearLine := func(y int) {
		win.MovePrint(y, 2, strings.Repeat(" ", width-4))
	}

	printCenter(0, " Pixoonair v"+config.Version+" ")

	for i, line := range f.Lines() {
		y := 2 + i
		clearLine(y)
		win.MovePrint(y, 2, panel.Truncate(line, width-4))
	}

	clearLine(height - 4)
	win.MovePrint(height-4, 2, panel.Truncate(f.StatusLine(), width-4))

	selected := -1
	if f.Focus == panel.FieldButtons {
		selected = f.Button
	}
	curses.DrawActionButtons(win, panel.Buttons, selected, 10)

	win.NoutRefresh()
	return goncurses.Update()
}

// RunPanel shows the settings form until the user quits. Settings go
// through store, the autostart flag is read and written locally.
func RunPanel(store panel.Store, as autostart.Manager) error {
	stdscr, err := curses.Setup()
	if err != nil {
		return err
	}
	defer goncurses.End()

	win, err := curses.NewWindow(stdscr, height, width, "", -1)
	if err != nil {
		return err
	}
	defer func(win *goncurses.Window) {
		err := win.Delete()
		if err != nil {
			log.Error().Msgf("failed to delete window: %s", err)
		}
	}(win)

	win.Timeout(pollInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := panel.NewController(store, as)
	err = ctrl.Mount(ctx)
	if err != nil {
		return err
	}
	defer ctrl.Unmount()

	form := panel.NewForm(ctrl)

	for {
		ctrl.Poll()
		form.Refresh()

		err := draw(win, form)
		if err != nil {
			return err
		}

		in, ok := toInput(win.GetChar())
		if !ok {
			continue
		}

		if form.HandleInput(ctx, in) == panel.ActionQuit {
			break
		}
	}

	if form.Commit != nil {
		// let an in-flight save finish before tearing down
		err := form.Commit.Wait(ctx)
		if err != nil {
			log.Error().Err(err).Msg("settings not saved")
		}
	}

	return nil
}
