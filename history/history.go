// Package history keeps the list of recently opened SVG files.
//
// The list is plain bookkeeping, kept outside of the conversion pipeline:
// it is stored as a single JSON value under Key by one of the Store
// backends (file, Redis, SQLite or memory).
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// Key is the name under which the list is stored.
	Key = "recentSvgFiles"
	// MaxEntries is the length of the list.
	MaxEntries = 5
)

// Entry is one opened file.
type Entry struct {
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}

// Store loads and saves the whole list.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
	Close() error
}

// Push returns a new list starting with `e`, followed by
// the most recent entries of `entries`, so that the result
// has at most MaxEntries items.
func Push(entries []Entry, e Entry) []Entry {
	keep := entries
	if len(keep) > MaxEntries-1 {
		keep = keep[:MaxEntries-1]
	}
	out := make([]Entry, 0, len(keep)+1)
	out = append(out, e)
	return append(out, keep...)
}

// Record adds `name`, opened at `now`, to the list held by `s`.
func Record(ctx context.Context, s Store, name string, now time.Time) ([]Entry, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	entries = Push(entries, Entry{Name: name, Date: now})
	if err := s.Save(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func marshal(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return data, nil
}

func unmarshal(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return entries, nil
}
