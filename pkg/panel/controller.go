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

// Package panel holds the state behind the settings panel: an editable
// draft that is reconciled with the stored settings and the OS autostart
// registration when the panel opens, and written back on submit.
//
// A Controller is owned by one goroutine, normally the UI event loop.
// Background calls never touch the draft, they deliver a Completion on
// Completions() which the owner passes to Apply.
package panel

import (
	"context"
	"errors"

	"github.com/pixoonair/pixoonair/pkg/autostart"
	"github.com/pixoonair/pixoonair/pkg/settings"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotReady       = errors.New("settings are still loading")
	ErrAlreadyMounted = errors.New("controller already mounted")
)

// Store reads and writes the settings record held by the host.
type Store interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, s settings.Settings) error
}

type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

type CompletionKind int

const (
	SettingsLoaded CompletionKind = iota
	AutoStartQueried
	AutoStartReasserted
)

// Completion is the result of one background startup call.
type Completion struct {
	Kind     CompletionKind
	Settings settings.Settings
	Enabled  bool
	Err      error
}

// at most one of each kind per session
const completionsBuffer = 3

type Controller struct {
	store       Store
	autoStart   autostart.Manager
	draft       Draft
	phase       Phase
	loaded      bool
	queried     bool
	reasserted  bool
	unmounted   bool
	loadErr     error
	queryErr    error
	reassertErr error
	completions chan Completion
	cancel      context.CancelFunc
}

func NewController(store Store, autoStart autostart.Manager) *Controller {
	return &Controller{
		store:       store,
		autoStart:   autoStart,
		draft:       NewDraft(),
		phase:       PhaseUninitialized,
		completions: make(chan Completion, completionsBuffer),
	}
}

func (c *Controller) Phase() Phase {
	return c.phase
}

func (c *Controller) Draft() Draft {
	return c.draft
}

// LoadErr is the error from the startup settings load, if any.
func (c *Controller) LoadErr() error {
	return c.loadErr
}

// QueryErr is the error from the startup autostart query, if any.
func (c *Controller) QueryErr() error {
	return c.queryErr
}

func (c *Controller) ReassertErr() error {
	return c.reassertErr
}

func (c *Controller) Completions() <-chan Completion {
	return c.completions
}

// Mount starts the settings load and the autostart query. Each runs in its
// own goroutine and neither waits for the other. When the query succeeds
// the same goroutine immediately re-applies the queried state to the OS,
// and the controller is not ready until that write has finished.
// A Controller serves a single session and cannot be mounted twice.
func (c *Controller) Mount(ctx context.Context) error {
	if c.phase != PhaseUninitialized || c.unmounted {
		return ErrAlreadyMounted
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.phase = PhaseLoading

	go func() {
		s, err := c.store.Load(ctx)
		c.completions <- Completion{
			Kind:     SettingsLoaded,
			Settings: s,
			Err:      err,
		}
	}()

	go func() {
		enabled, err := c.autoStart.IsEnabled()
		if err != nil {
			// unknown, shown as disabled and never written back
			c.completions <- Completion{Kind: AutoStartQueried, Err: err}
			return
		}

		c.completions <- Completion{Kind: AutoStartQueried, Enabled: enabled}

		if ctx.Err() != nil {
			return
		}

		err = autostart.Set(c.autoStart, enabled)
		c.completions <- Completion{
			Kind:    AutoStartReasserted,
			Enabled: enabled,
			Err:     err,
		}
	}()

	return nil
}

// Unmount abandons in-flight startup calls. Completions that arrive later
// are dropped.
func (c *Controller) Unmount() {
	c.unmounted = true
	if c.cancel != nil {
		c.cancel()
	}
}

// Apply merges a startup result into the draft. Failed calls leave their
// part of the draft at its current value, the form stays editable.
func (c *Controller) Apply(comp Completion) {
	if c.unmounted || c.phase == PhaseUninitialized {
		return
	}

	switch comp.Kind {
	case SettingsLoaded:
		c.loaded = true
		c.loadErr = comp.Err
		if comp.Err != nil {
			log.Error().Err(comp.Err).Msg("error loading settings")
			break
		}
		c.draft.Settings = settings.WithDefaults(comp.Settings)
		log.Debug().Msg("settings loaded")
	case AutoStartQueried:
		c.queried = true
		c.queryErr = comp.Err
		if comp.Err != nil {
			log.Warn().Err(comp.Err).Msg("error querying autostart, showing as disabled")
			c.draft.AutoStartEnabled = false
			break
		}
		c.draft.AutoStartEnabled = comp.Enabled
		log.Debug().Bool("enabled", comp.Enabled).Msg("autostart queried")
	case AutoStartReasserted:
		c.reasserted = true
		c.reassertErr = comp.Err
		if comp.Err != nil {
			log.Error().Err(comp.Err).Msg("error reasserting autostart")
		}
	}

	if c.phase == PhaseLoading && c.startupDone() {
		c.phase = PhaseReady
		log.Info().Msg("settings panel ready")
	}
}

// startupDone reports whether every startup call has finished. A successful
// query is followed by a reassertion write, and a Submit must not race it.
func (c *Controller) startupDone() bool {
	if !c.loaded || !c.queried {
		return false
	}
	return c.queryErr != nil || c.reasserted
}

// Poll applies every completion already delivered without blocking and
// returns how many were applied.
func (c *Controller) Poll() int {
	n := 0
	for {
		select {
		case comp := <-c.completions:
			c.Apply(comp)
			n++
		default:
			return n
		}
	}
}

// WaitReady applies completions until the controller is ready.
func (c *Controller) WaitReady(ctx context.Context) error {
	if c.phase == PhaseUninitialized {
		return ErrNotReady
	}

	for c.phase != PhaseReady {
		select {
		case comp := <-c.completions:
			c.Apply(comp)
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// SetDraft replaces the whole draft. Unknown GIF types fall back to the
// default.
func (c *Controller) SetDraft(d Draft) {
	d.Settings = settings.WithDefaults(d.Settings)
	c.draft = d
}

func (c *Controller) SetTargetDeviceName(name string) {
	c.draft = c.draft.WithTargetDeviceName(name)
}

func (c *Controller) SetGifFileType(t settings.GifFileType) {
	if _, ok := settings.ParseGifFileType(string(t)); !ok {
		log.Warn().Str("type", string(t)).Msg("ignoring unknown gif file type")
		return
	}
	c.draft = c.draft.WithGifFileType(t)
}

func (c *Controller) SetGifFileId(id string) {
	c.draft = c.draft.WithGifFileId(id)
}

func (c *Controller) SetGifFileUrl(url string) {
	c.draft = c.draft.WithGifFileUrl(url)
}

func (c *Controller) SetAutoStartEnabled(enabled bool) {
	c.draft = c.draft.WithAutoStartEnabled(enabled)
}

// Commit is the outcome of one Submit.
type Commit struct {
	Draft        Draft
	done         chan struct{}
	saveErr      error
	autoStartErr error
}

func (c *Commit) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until both writes finish and returns their errors joined.
func (c *Commit) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the joined errors of a finished commit, or nil if it is
// still running.
func (c *Commit) Err() error {
	select {
	case <-c.done:
		return errors.Join(c.saveErr, c.autoStartErr)
	default:
		return nil
	}
}

// SaveErr is valid once Done is closed.
func (c *Commit) SaveErr() error {
	return c.saveErr
}

// AutoStartErr is valid once Done is closed.
func (c *Commit) AutoStartErr() error {
	return c.autoStartErr
}

// Submit writes a snapshot of the draft: the settings record to the store
// and the autostart flag to the OS. The two writes run concurrently and
// neither waits on or cancels the other. Submit returns without waiting,
// the draft is never rolled back on failure.
func (c *Controller) Submit(ctx context.Context) (*Commit, error) {
	if c.phase != PhaseReady {
		return nil, ErrNotReady
	}

	commit := &Commit{
		Draft: c.draft,
		done:  make(chan struct{}),
	}

	var g errgroup.Group

	g.Go(func() error {
		commit.saveErr = c.store.Save(ctx, commit.Draft.Settings)
		if commit.saveErr != nil {
			log.Error().Err(commit.saveErr).Msg("error saving settings")
		}
		return commit.saveErr
	})

	g.Go(func() error {
		commit.autoStartErr = autostart.Set(c.autoStart, commit.Draft.AutoStartEnabled)
		if commit.autoStartErr != nil {
			log.Error().Err(commit.autoStartErr).Msg("error updating autostart")
		}
		return commit.autoStartErr
	})

	go func() {
		_ = g.Wait()
		close(commit.done)
	}()

	log.Info().
		Str("target", commit.Draft.TargetDeviceName).
		Str("gifFileType", string(commit.Draft.GifFileType)).
		Bool("autoStart", commit.Draft.AutoStartEnabled).
		Msg("settings submitted")

	return commit, nil
}
