package config

import (
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const reloadDelay = 1 * time.Second

// StartWatcher reloads the user config from disk whenever the ini file is
// edited. The optional onReload hook runs after every successful reload.
// The returned function stops the watcher.
func StartWatcher(cfg *UserConfig, onReload func(*UserConfig)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	reload := func() {
		err := cfg.LoadConfig()
		if err != nil {
			log.Error().Err(err).Msg("error reloading user config")
			return
		}
		log.Info().Str("path", cfg.IniPath).Msg("user config reloaded")
		if onReload != nil {
			onReload(cfg)
		}
	}

	go func() {
		// writes usually arrive as a burst of events, and some editors
		// replace the file instead of writing it, which drops the watch
		var lastReload time.Time
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					if time.Since(lastReload) < reloadDelay {
						continue
					}
					time.Sleep(reloadDelay)
					lastReload = time.Now()
					reload()
				} else if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					time.Sleep(reloadDelay)
					if _, err := os.Stat(cfg.IniPath); err != nil {
						log.Warn().Str("path", cfg.IniPath).Msg("user config removed")
						continue
					}
					err := watcher.Add(cfg.IniPath)
					if err != nil {
						log.Error().Err(err).Msg("error watching user config")
					}
					lastReload = time.Now()
					reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error().Err(err).Msg("config watcher error")
			}
		}
	}()

	err = watcher.Add(cfg.IniPath)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher.Close, nil
}
