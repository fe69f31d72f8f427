package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Persister stores and reloads the full snapshot document. The store calls
// Save synchronously on every mutation (write-through).
type Persister interface {
	Load() (*Snapshot, error)
	Save(snap *Snapshot) error
}

// Syncer mirrors the snapshot to a secondary location. Sync failures are
// reported but never undo the local mutation.
type Syncer interface {
	Sync(snap *Snapshot) error
}

// FilePersister keeps the snapshot as a single JSON file on disk.
type FilePersister struct {
	Path string
}

// Load reads the snapshot file. A missing file yields an empty snapshot so
// a fresh install starts clean.
func (p *FilePersister) Load() (*Snapshot, error) {
	data, err := os.ReadFile(p.Path)
	if os.IsNotExist(err) {
		return &Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes the whole document atomically: temp file in the same
// directory, then rename over the previous snapshot.
func (p *FilePersister) Save(snap *Snapshot) error {
	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.Path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
