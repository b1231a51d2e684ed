// Copyright (C) 2025 pupbrained <mars@pupbrained.xyz>
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package cache implements the persistent readout cache.
//
// Each key maps to one file under the user cache directory, holding a
// CBOR-encoded envelope of (write timestamp, serialized value). Freshness
// is evaluated at read time against the manager's TTL, or against the
// modification time of a watched path when the caller supplies one.
//
// Resolution order is memory, then disk, then producer: a value fetched
// once in a run is authoritative for the rest of that run, and concurrent
// producers for the same key are collapsed to a single invocation.
//
// Writes are atomic: the envelope goes to a uniquely named temporary file
// in the same directory and is renamed over the target. Across processes
// the store is best-effort; the last writer wins.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/pupbrained/draconisplusplus-sub000/pkg/dracerr"
	"github.com/pupbrained/draconisplusplus-sub000/pkg/logging"
)

// fileSuffix keeps the on-disk naming scheme of the original cache format.
const fileSuffix = "_cache.beve"

// DefaultTTL is the global freshness window applied when the policy does
// not override it.
const DefaultTTL = 12 * time.Hour

// reservedKeyChars are rejected in keys for filename safety.
const reservedKeyChars = `/\:*?"<>|`

// =============================================================================
// Policy
// =============================================================================

// Location selects where cache files live.
type Location int

const (
	// Persistent stores entries under the OS user cache directory
	// (XDG_CACHE_HOME, ~/Library/Caches, %LOCALAPPDATA%).
	Persistent Location = iota

	// Transient stores entries under the system temporary directory.
	Transient
)

// Policy is the process-global cache policy, set once at construction.
type Policy struct {
	Location Location
	TTL      time.Duration

	// Dir, when non-empty, overrides the location-derived directory.
	Dir string
}

// =============================================================================
// Manager
// =============================================================================

// Manager owns the cache directory and the in-run memoization layer. It is
// shared across all readout tasks; each task touches distinct keys, and the
// internal state is safe for concurrent use regardless.
type Manager struct {
	dir string
	ttl time.Duration
	mem *gocache.Cache
	sf  singleflight.Group
	log *logging.Logger
}

// NewManager constructs a Manager under the policy's directory, creating it
// if needed.
func NewManager(policy Policy, log *logging.Logger) (*Manager, *dracerr.Error) {
	if log == nil {
		log = logging.Default()
	}

	var dir string
	if policy.Dir != "" {
		dir = policy.Dir
	} else {
		var base string
		switch policy.Location {
		case Transient:
			base = os.TempDir()
		default:
			resolved, err := os.UserCacheDir()
			if err != nil {
				return nil, dracerr.FromSysf(err, "resolving user cache directory")
			}
			base = resolved
		}
		dir = filepath.Join(base, "draconis")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, dracerr.FromSysf(err, "creating cache directory %s", dir)
	}

	ttl := policy.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{
		dir: dir,
		ttl: ttl,
		mem: gocache.New(gocache.NoExpiration, 0),
		log: log,
	}, nil
}

// Dir returns the resolved cache directory.
func (m *Manager) Dir() string {
	return m.dir
}

// TTL returns the global freshness window.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Path maps a key to its cache file. Keys containing filesystem-reserved
// characters are rejected.
func (m *Manager) Path(key string) (string, *dracerr.Error) {
	if key == "" {
		return "", dracerr.New(dracerr.InvalidArgument, "cache key cannot be empty")
	}
	if strings.ContainsAny(key, reservedKeyChars) {
		return "", dracerr.Newf(dracerr.InvalidArgument, "cache key %q contains invalid characters", key)
	}
	return filepath.Join(m.dir, key+fileSuffix), nil
}

// Delete removes the entry for key from memory and disk. A missing file is
// not an error.
func (m *Manager) Delete(key string) *dracerr.Error {
	path, derr := m.Path(key)
	if derr != nil {
		return derr
	}
	m.mem.Delete(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return dracerr.FromSysf(err, "removing cache file %s", path)
	}
	return nil
}

// =============================================================================
// Envelope
// =============================================================================

// envelope is the on-disk record: the serialized value plus the epoch
// second it was written.
type envelope struct {
	Timestamp int64           `cbor:"ts"`
	Payload   cbor.RawMessage `cbor:"payload"`
}

// =============================================================================
// Typed Operations
// =============================================================================

// Get returns the cached value for key if a fresh entry exists. A miss or
// a stale entry yields NotFound; a corrupted entry yields ParseError.
func Get[T any](m *Manager, key string) (T, *dracerr.Error) {
	return getWatched[T](m, key, "")
}

// GetWatched is Get with a watched path: the entry is additionally stale
// when the path's modification time exceeds the entry's write time.
func GetWatched[T any](m *Manager, key, watchPath string) (T, *dracerr.Error) {
	return getWatched[T](m, key, watchPath)
}

func getWatched[T any](m *Manager, key, watchPath string) (T, *dracerr.Error) {
	var zero T

	path, derr := m.Path(key)
	if derr != nil {
		return zero, derr
	}

	// A value resolved earlier in this run is authoritative.
	if v, ok := m.mem.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, dracerr.Newf(dracerr.NotFound, "cache file not found: %s", path)
		}
		return zero, dracerr.FromSysf(err, "reading cache file %s", path)
	}

	if len(raw) == 0 {
		return zero, dracerr.Newf(dracerr.ParseError, "cache file is empty: %s", path)
	}

	var env envelope
	if err := cbor.Unmarshal(raw, &env); err != nil {
		return zero, dracerr.Newf(dracerr.ParseError, "corrupt cache entry %q: %v", key, err)
	}

	wrote := time.Unix(env.Timestamp, 0)
	if time.Since(wrote) >= m.ttl {
		return zero, dracerr.Newf(dracerr.NotFound, "cache entry %q is stale", key)
	}

	if watchPath != "" {
		if info, statErr := os.Stat(watchPath); statErr == nil && info.ModTime().After(wrote) {
			return zero, dracerr.Newf(dracerr.NotFound, "cache entry %q superseded by %s", key, watchPath)
		}
	}

	var value T
	if err := cbor.Unmarshal(env.Payload, &value); err != nil {
		return zero, dracerr.Newf(dracerr.ParseError, "corrupt cache payload for %q: %v", key, err)
	}

	m.mem.Set(key, value, gocache.NoExpiration)
	m.log.Debug("cache hit", "key", key)
	return value, nil
}

// Put serializes value and writes it atomically under key.
func Put[T any](m *Manager, key string, value T) *dracerr.Error {
	path, derr := m.Path(key)
	if derr != nil {
		return derr
	}

	payload, err := cbor.Marshal(value)
	if err != nil {
		return dracerr.Newf(dracerr.ParseError, "serializing cache value for %q: %v", key, err)
	}

	raw, err := cbor.Marshal(envelope{Timestamp: time.Now().Unix(), Payload: payload})
	if err != nil {
		return dracerr.Newf(dracerr.ParseError, "serializing cache envelope for %q: %v", key, err)
	}

	tmp := fmt.Sprintf("%s.tmp.%s", path, uuid.NewString())
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return dracerr.FromSysf(err, "writing temporary cache file %s", tmp)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return dracerr.FromSysf(err, "replacing cache file %s", path)
	}

	m.mem.Set(key, value, gocache.NoExpiration)
	m.log.Debug("cache write", "key", key)
	return nil
}

// GetOrSet returns the fresh cached value for key, or invokes producer,
// caches its success value, and returns it. On producer failure nothing is
// written and the producer's error is returned. Concurrent callers for the
// same key share one producer invocation.
func GetOrSet[T any](m *Manager, key string, producer func() (T, *dracerr.Error)) (T, *dracerr.Error) {
	return getOrSet(m, key, "", producer)
}

// GetOrSetWatched is GetOrSet with watched-path freshness, for callers
// whose source of truth is a file or directory.
func GetOrSetWatched[T any](m *Manager, key, watchPath string, producer func() (T, *dracerr.Error)) (T, *dracerr.Error) {
	return getOrSet(m, key, watchPath, producer)
}

func getOrSet[T any](m *Manager, key, watchPath string, producer func() (T, *dracerr.Error)) (T, *dracerr.Error) {
	var zero T

	if _, derr := m.Path(key); derr != nil {
		return zero, derr
	}

	v, err, _ := m.sf.Do(key, func() (any, error) {
		if cached, derr := getWatched[T](m, key, watchPath); derr == nil {
			return cached, nil
		} else if derr.Code != dracerr.NotFound {
			m.log.Debug("cache read failed", "key", key, "error", derr.Message, "code", derr.Code)
		}

		value, derr := producer()
		if derr != nil {
			return nil, derr
		}

		if werr := Put(m, key, value); werr != nil {
			m.log.Debug("cache write failed", "key", key, "error", werr.Message, "code", werr.Code)
		}
		return value, nil
	})
	if err != nil {
		var derr *dracerr.Error
		if errors.As(err, &derr) {
			return zero, derr
		}
		return zero, dracerr.Wrap(err)
	}

	return v.(T), nil
}
