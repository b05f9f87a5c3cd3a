package database

import (
	"encoding/json"
	"fmt"

	"github.com/pixoonair/pixoonair/pkg/settings"
	bolt "go.etcd.io/bbolt"
)

// KeyAppSettings holds the whole settings record as one JSON document.
const KeyAppSettings = "appSettings"

// LoadSettings returns defaults when nothing has been saved yet. A stored
// value that is not a record returns defaults and settings.ErrCorrupt.
func (d *Database) LoadSettings() (settings.Settings, error) {
	var data []byte

	err := d.bdb.View(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketSettings))
		v := b.Get([]byte(KeyAppSettings))
		if v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return settings.Defaults(), fmt.Errorf("%w: %v", settings.ErrBackendUnavailable, err)
	}

	if data == nil {
		return settings.Defaults(), nil
	}

	return settings.Decode(data)
}

// SaveSettings replaces the stored record in a single transaction, so a
// reader sees either the old record or the new one.
func (d *Database) SaveSettings(s settings.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	err = d.bdb.Update(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketSettings))
		return b.Put([]byte(KeyAppSettings), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", settings.ErrBackendUnavailable, err)
	}

	return nil
}
