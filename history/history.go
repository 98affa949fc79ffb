// Package history remembers the bundles handed to mpv, most recent last.
package history

import (
	"time"

	"github.com/karaberus/karaplay/filesystem"
	"github.com/karaberus/karaplay/key"
	"github.com/karaberus/karaplay/where"
	"github.com/metafates/gache"
	"github.com/spf13/viper"
)

// Entry is one played bundle.
type Entry struct {
	Title        string    `json:"title"`
	Video        string    `json:"video,omitempty"`
	Instrumental string    `json:"instrumental,omitempty"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Session      string    `json:"session"`
	PlayedAt     time.Time `json:"played_at"`
}

var cacher = gache.New[[]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the recorded entries, oldest first.
func Get() ([]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return []*Entry{}, nil
	}
	return cached, nil
}

// Record appends an entry unless history.save is off, keeping at most history.limit entries.
func Record(entry *Entry) error {
	if !viper.GetBool(key.HistorySave) {
		return nil
	}

	entries, err := Get()
	if err != nil {
		return err
	}

	if entry.PlayedAt.IsZero() {
		entry.PlayedAt = time.Now()
	}
	entries = append(entries, entry)

	if limit := viper.GetInt(key.HistoryLimit); limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	return cacher.Set(entries)
}

// Clear forgets every entry.
func Clear() error {
	return cacher.Set([]*Entry{})
}
