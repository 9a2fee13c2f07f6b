// Package localstore implements a small keyed slot store on the local
// filesystem. Each key owns one JSON document; writes replace the whole
// document atomically. It backs the fallback credential records and the
// persisted session, surviving process restarts the way the original
// deployment survived page reloads.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/pkg/errors"

	"menshub/config"
)

var slotKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// Store persists one JSON document per key under a single directory.
// All operations are safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates the backing directory if needed and returns the store.
func NewStore(cfg *config.Config) (*Store, error) {
	dir := cfg.LocalStore.Path
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create local store dir %s", dir)
	}

	return &Store{dir: dir}, nil
}

// Get reads the slot into out. The second return is false when the slot
// does not exist; a slot that exists but fails to decode returns the
// decode error so callers can self-heal.
func (s *Store) Get(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.slotPath(key)
	if err != nil {
		return false, err
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "read slot %s", key)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return true, errors.Wrapf(err, "decode slot %s", key)
	}

	return true, nil
}

// GetRaw reads the slot as an opaque string, for slots whose payload is
// already an encoded token rather than a JSON document.
func (s *Store) GetRaw(key string) (string, bool, error) {
	var value string
	found, err := s.Get(key, &value)

	return value, found, err
}

// Set replaces the slot with the JSON encoding of value. The write goes
// through a temp file and rename so a crash never leaves a torn slot.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.slotPath(key)
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode slot %s", key)
	}

	tmp, err := os.CreateTemp(s.dir, key+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "stage slot %s", key)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return errors.Wrapf(err, "write slot %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return errors.Wrapf(err, "close slot %s", key)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)

		return errors.Wrapf(err, "commit slot %s", key)
	}

	return nil
}

// SetRaw stores an opaque string payload under the key.
func (s *Store) SetRaw(key, value string) error {
	return s.Set(key, value)
}

// Delete removes the slot. Deleting a missing slot is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.slotPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "delete slot %s", key)
	}

	return nil
}

func (s *Store) slotPath(key string) (string, error) {
	if !slotKeyPattern.MatchString(key) {
		return "", errors.Errorf("invalid slot key %q", key)
	}

	return filepath.Join(s.dir, key+".json"), nil
}
