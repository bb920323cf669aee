package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultAutoSaveInterval = 10 * time.Second

// File is a Store persisted to a single JSON document on disk. All reads are
// served from memory; writes are flushed by a background autosave loop and on
// Close. Writes to disk are atomic (temp file + rename).
type File struct {
	path   string
	mu     sync.RWMutex
	data   map[string]json.RawMessage
	cancel context.CancelFunc
	wg     sync.WaitGroup

	saveMu       sync.Mutex
	lastChecksum string

	closeMu sync.Mutex
	closed  bool
}

// NewFile opens (or creates) the JSON store at path and starts the autosave
// loop.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("store: file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	f := &File{
		path:   path,
		data:   make(map[string]json.RawMessage),
		cancel: cancel,
	}

	if err := f.load(); err != nil {
		cancel()
		return nil, err
	}

	f.wg.Add(1)
	go f.autoSave(ctx)

	return f, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	value, ok := f.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("store: value for %q is not valid JSON", key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	stored := make(json.RawMessage, len(value))
	copy(stored, value)
	f.data[key] = stored
	return nil
}

func (f *File) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.data[key]; !ok {
		return ErrNotFound
	}
	delete(f.data, key)
	return nil
}

// Close stops the autosave loop and performs a final flush.
func (f *File) Close() error {
	f.closeMu.Lock()
	if f.closed {
		f.closeMu.Unlock()
		return nil
	}
	f.closed = true
	f.closeMu.Unlock()

	f.cancel()
	f.wg.Wait()
	return f.save()
}

func (f *File) load() error {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return f.writeAtomic([]byte("{}"))
	}
	if err != nil {
		return fmt.Errorf("store: read %s: %w", f.path, err)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("store: %s is not valid JSON: %w", f.path, err)
	}
	if data == nil {
		data = make(map[string]json.RawMessage)
	}

	f.mu.Lock()
	f.data = data
	f.mu.Unlock()
	f.lastChecksum = checksum(raw)
	return nil
}

func (f *File) save() error {
	f.mu.RLock()
	raw, err := json.MarshalIndent(f.data, "", "  ")
	f.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}

	f.saveMu.Lock()
	defer f.saveMu.Unlock()

	// Skip the write when nothing changed since the last flush.
	sum := checksum(raw)
	if sum == f.lastChecksum {
		return nil
	}

	if err := f.writeAtomic(raw); err != nil {
		return err
	}
	f.lastChecksum = sum
	return nil
}

// writeAtomic writes data via a temp file and rename so a crash mid-write
// never leaves a truncated store on disk.
func (f *File) writeAtomic(data []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}

	file, err := os.OpenFile(tmp, os.O_RDWR, 0o644)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("store: sync temp file: %w", err)
	}
	file.Close()

	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: rename temp file: %w", err)
	}
	return nil
}

func (f *File) autoSave(ctx context.Context) {
	defer f.wg.Done()

	ticker := time.NewTicker(defaultAutoSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.save(); err != nil {
				log.Error().Err(err).Str("path", f.path).Msg("store autosave failed")
			}
		}
	}
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
