// Package cache is a disk-backed store for raw API response bodies.
//
// Layout: one <key>.json payload file per entry plus a single
// cache_metadata.json index mapping key -> {timestamp, ttl_minutes,
// expires_at, source}. The index is fully loaded, mutated and fully rewritten
// on every Put. There is no locking: the tool is single-user and
// single-process, so two simultaneous invocations race last-writer-wins on
// the index rewrite. Known limitation, kept as such.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandkit/sandkit/internal/logger"
	"github.com/sandkit/sandkit/internal/models"
	"github.com/sandkit/sandkit/internal/utils"
)

// ErrNotFound reports a missing, unreadable or expired entry.
var ErrNotFound = errors.New("cache entry not found")

const metaFileName = "cache_metadata.json"

// Meta is the per-key index record. ExpiresAt is always Timestamp plus
// TTLMinutes; it is stored redundantly so a human can inspect the index.
type Meta struct {
	Timestamp  time.Time     `json:"timestamp"`
	TTLMinutes int           `json:"ttl_minutes"`
	ExpiresAt  time.Time     `json:"expires_at"`
	Source     models.Source `json:"source"`
}

// Expired fails closed: a zero or unparseable expiry is treated as expired,
// never as valid.
func (m Meta) Expired(now time.Time) bool {
	if m.ExpiresAt.IsZero() {
		return true
	}
	return now.After(m.ExpiresAt)
}

type Store struct {
	dir      string
	metaPath string
	now      func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{
		dir:      dir,
		metaPath: filepath.Join(dir, metaFileName),
		now:      time.Now,
	}
}

// Dir returns the cache directory path.
func (s *Store) Dir() string { return s.dir }

// Get reads the payload stored under key. It returns ErrNotFound when the
// payload file is absent, when its content is not valid JSON, when the index
// has no record for the key, or (unless ignoreExpiry) when the entry is
// expired.
func (s *Store) Get(key string, ignoreExpiry bool) (json.RawMessage, error) {
	meta, ok := s.readIndex()[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !ignoreExpiry && meta.Expired(s.now()) {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(s.payloadPath(key))
	if err != nil {
		return nil, ErrNotFound
	}
	if !json.Valid(data) {
		logger.Debug("cache entry %s holds invalid JSON, treating as absent", key)
		return nil, ErrNotFound
	}
	return data, nil
}

// GetMeta returns the index record for key, if any.
func (s *Store) GetMeta(key string) (Meta, bool) {
	meta, ok := s.readIndex()[key]
	return meta, ok
}

// Put writes the payload under key and refreshes the index record with a new
// timestamp, ttl and provenance. The cache directory is created on first use.
// Errors are returned so the caller can apply the swallow-and-log policy at
// its boundary; a failed Put must never block the caller's workflow.
func (s *Store) Put(key string, payload json.RawMessage, ttl time.Duration, source models.Source) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := utils.WriteFileAtomic(s.payloadPath(key), payload, 0o644); err != nil {
		return fmt.Errorf("failed to write cache payload %s: %w", key, err)
	}

	now := s.now().UTC()
	index := s.readIndex()
	index[key] = Meta{
		Timestamp:  now,
		TTLMinutes: int(ttl.Minutes()),
		ExpiresAt:  now.Add(ttl),
		Source:     source,
	}

	if err := utils.WriteJSONAtomic(s.metaPath, index); err != nil {
		return fmt.Errorf("failed to write cache index: %w", err)
	}
	return nil
}

// Clear deletes the whole cache directory. Clearing a non-existent cache is
// a successful no-op.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Index returns a copy of the metadata index for diagnostics.
func (s *Store) Index() map[string]Meta {
	return s.readIndex()
}

// readIndex loads the full index. A missing or malformed index file yields an
// empty index; parse errors fail toward re-fetching, never toward crashing.
func (s *Store) readIndex() map[string]Meta {
	index := make(map[string]Meta)

	data, err := os.ReadFile(s.metaPath)
	if err != nil {
		return index
	}
	if err := json.Unmarshal(data, &index); err != nil {
		logger.Debug("cache index unreadable, starting fresh: %v", err)
		return make(map[string]Meta)
	}
	return index
}

func (s *Store) payloadPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}
