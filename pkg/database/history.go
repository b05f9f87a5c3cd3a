package database

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/exp/slices"
)

const DefaultHistoryResults = 25

type HistoryEntry struct {
	Time    time.Time `json:"time"`
	Mode    string    `json:"mode"`
	Device  string    `json:"device"`
	Gif     string    `json:"gif"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

func historyKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func (d *Database) AddHistory(entry HistoryEntry) error {
	return d.bdb.Update(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketHistory))

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return b.Put(historyKey(seq), data)
	})
}

// GetHistory returns up to maxResults entries, newest first. Zero or less
// returns every entry.
func (d *Database) GetHistory(maxResults int) ([]HistoryEntry, error) {
	entries := make([]HistoryEntry, 0)

	err := d.bdb.View(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketHistory))

		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if maxResults > 0 && len(entries) >= maxResults {
				break
			}

			var entry HistoryEntry
			err := json.Unmarshal(v, &entry)
			if err != nil {
				return err
			}

			entries = append(entries, entry)
		}

		return nil
	})

	return entries, err
}

type historyRow struct {
	Time    string `csv:"time"`
	Mode    string `csv:"mode"`
	Device  string `csv:"device"`
	Gif     string `csv:"gif"`
	Success bool   `csv:"success"`
	Error   string `csv:"error"`
}

// WriteHistoryCsv writes entries to w in the order given.
func WriteHistoryCsv(w io.Writer, entries []HistoryEntry) error {
	rows := make([]*historyRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &historyRow{
			Time:    e.Time.Format(time.RFC3339),
			Mode:    e.Mode,
			Device:  e.Device,
			Gif:     e.Gif,
			Success: e.Success,
			Error:   e.Error,
		})
	}

	return gocsv.Marshal(rows, w)
}

// ExportHistoryCsv writes every history entry to w, oldest first.
func (d *Database) ExportHistoryCsv(w io.Writer) error {
	entries, err := d.GetHistory(0)
	if err != nil {
		return err
	}

	slices.Reverse(entries)
	return WriteHistoryCsv(w, entries)
}
