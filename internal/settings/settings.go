// Package settings persists session state between runs in a BoltDB database.
// It remembers the last opened directory, the starred images and the
// slideshow timing that was last used.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/adrg/xdg"
	bolt "go.etcd.io/bbolt"

	"poseshow/internal/slideshow"
)

const (
	appName        = "poseshow"
	dbFileName     = "poseshow.db"
	SettingsBucket = "Settings" // Bucket name for single-value settings.
	StarsBucket    = "Stars"    // Bucket name for starred image paths.

	keyLastDirectory = "last_directory"
	keyStrategy      = "strategy"
	keyStarred       = "starred"

	// openTimeout bounds the wait for another process holding the file lock.
	openTimeout = 2 * time.Second
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("setting not found")

// LoggerFunc defines a function signature for logging messages.
type LoggerFunc func(message string)

// Store manages the settings database.
type Store struct {
	db     *bolt.DB
	logger LoggerFunc
}

// NewStore creates or opens the settings database file.
// dbDir specifies the directory where the db file should be stored; when
// empty the user's XDG data directory is used.
func NewStore(dbDir string, logger LoggerFunc) (*Store, error) {
	var dbPath string
	if dbDir == "" {
		p, err := xdg.DataFile(filepath.Join(appName, dbFileName))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve settings path: %w", err)
		}
		dbPath = p
	} else {
		dbPath = filepath.Join(dbDir, dbFileName)
	}

	s := &Store{logger: logger}
	s.logMessage("Using settings database at: %s", dbPath)

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: openTimeout}) // 0600 permissions: user read/write
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database %s: %w", dbPath, err)
	}

	// Ensure buckets exist
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{SettingsBucket, StarsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func (s *Store) logMessage(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger(fmt.Sprintf(format, args...))
	} else {
		log.Printf(format, args...)
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get decodes the JSON value stored under key into v.
func (s *Store) Get(key string, v any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(SettingsBucket)).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to decode setting '%s': %w", key, err)
		}
		return nil
	})
}

// Set stores v as JSON under key.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode setting '%s': %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SettingsBucket)).Put([]byte(key), data)
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(SettingsBucket)).Delete([]byte(key))
	})
}

// LastDirectory returns the directory of the previous session, or "".
func (s *Store) LastDirectory() string {
	var dir string
	if err := s.Get(keyLastDirectory, &dir); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logMessage("Error reading last directory: %v", err)
		}
		return ""
	}
	return dir
}

// SetLastDirectory remembers dir for the next session.
func (s *Store) SetLastDirectory(dir string) error {
	return s.Set(keyLastDirectory, dir)
}

// StrategyConfig returns the saved slideshow timing. ok is false when
// nothing usable was saved.
func (s *Store) StrategyConfig() (cfg slideshow.Config, ok bool) {
	if err := s.Get(keyStrategy, &cfg); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logMessage("Error reading slideshow settings: %v", err)
		}
		return slideshow.Config{}, false
	}
	return cfg, true
}

// SetStrategyConfig saves the slideshow timing.
func (s *Store) SetStrategyConfig(cfg slideshow.Config) error {
	return s.Set(keyStrategy, cfg)
}

func decodeList(data []byte) ([]string, error) {
	var list []string
	if data == nil { // Handle case where key doesn't exist yet
		return []string{}, nil
	}
	err := json.Unmarshal(data, &list)
	return list, err
}

// Adds an item to a list only if it's not already present. Returns true if added.
func addToList(list []string, item string) ([]string, bool) {
	for _, existing := range list {
		if existing == item {
			return list, false
		}
	}
	return append(list, item), true
}

// removeFromList removes an item from a list. Returns the modified list.
func removeFromList(list []string, item string) []string {
	newList := list[:0]
	for _, existing := range list {
		if existing != item {
			newList = append(newList, existing)
		}
	}
	return newList
}

// updateStars adds or removes path from the starred list inside tx and
// reports whether the list changed.
func updateStars(tx *bolt.Tx, path string, add bool) (bool, error) {
	bucket := tx.Bucket([]byte(StarsBucket))
	current, err := decodeList(bucket.Get([]byte(keyStarred)))
	if err != nil {
		return false, fmt.Errorf("failed to decode starred list: %w", err)
	}

	var updated []string
	var changed bool
	if add {
		updated, changed = addToList(current, path)
	} else {
		updated = removeFromList(current, path)
		changed = len(updated) != len(current)
	}
	if !changed {
		return false, nil
	}

	if len(updated) == 0 {
		if err := bucket.Delete([]byte(keyStarred)); err != nil {
			return true, fmt.Errorf("failed to delete empty starred list: %w", err)
		}
		return true, nil
	}
	data, err := json.Marshal(updated)
	if err != nil {
		return true, fmt.Errorf("failed to encode starred list: %w", err)
	}
	if err := bucket.Put([]byte(keyStarred), data); err != nil {
		return true, fmt.Errorf("failed to put starred list: %w", err)
	}
	return true, nil
}

// Star marks path as starred. It reports whether the path was newly added.
func (s *Store) Star(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("image path cannot be empty")
	}
	var changed bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		changed, err = updateStars(tx, path, true)
		return err
	})
	return changed, err
}

// Unstar removes the star from path. It reports whether a star was removed.
func (s *Store) Unstar(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("image path cannot be empty")
	}
	var changed bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		changed, err = updateStars(tx, path, false)
		return err
	})
	return changed, err
}

// ToggleStar flips the star on path and returns whether it is now starred.
func (s *Store) ToggleStar(path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("image path cannot be empty")
	}
	var starred bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		added, err := updateStars(tx, path, true)
		if err != nil {
			return err
		}
		if added {
			starred = true
			return nil
		}
		_, err = updateStars(tx, path, false)
		return err
	})
	return starred, err
}

// IsStarred reports whether path carries a star.
func (s *Store) IsStarred(path string) bool {
	stars, err := s.Stars()
	if err != nil {
		s.logMessage("Error reading starred images: %v", err)
		return false
	}
	i := sort.SearchStrings(stars, path)
	return i < len(stars) && stars[i] == path
}

// Stars returns every starred path, sorted.
func (s *Store) Stars() ([]string, error) {
	var stars []string
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		stars, err = decodeList(tx.Bucket([]byte(StarsBucket)).Get([]byte(keyStarred)))
		if err != nil {
			return fmt.Errorf("failed to decode starred list: %w", err)
		}
		return nil
	})
	sort.Strings(stars) // Keep it tidy
	return stars, err
}
