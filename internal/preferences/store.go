// Mealplan - Content-Based Meal Recommendation and Scheduling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealplan

package preferences

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/mealplan/internal/config"
)

// Key prefix for BadgerDB storage
const prefsKeyPrefix = "prefs:"

// DefaultMaxHistory caps stored history when the config leaves it unset.
const DefaultMaxHistory = 50

// maxConflictRetries bounds read-modify-write retries on badger.ErrConflict.
const maxConflictRetries = 5

var (
	// ErrNotFound is returned when a user has no stored preferences.
	ErrNotFound = errors.New("preferences not found")

	// ErrEmptyUserID is returned for an empty user id.
	ErrEmptyUserID = errors.New("user id is required")
)

// Preferences is the stored document for one user.
type Preferences struct {
	UserID      string    `json:"user_id"`
	History     []int64   `json:"history"`
	MaxCalories float64   `json:"max_calories"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store is a BadgerDB-backed preference store.
type Store struct {
	db         *badger.DB
	maxHistory int
	now        func() time.Time

	// Serializes read-modify-write in this process; conflict retry
	// covers other writers.
	appendMu sync.Mutex
}

// Open opens (or creates) the store described by cfg.
func Open(cfg *config.PreferencesConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create preferences directory: %w", err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil // badger's own logger is too chatty at info level

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preferences store: %w", err)
	}
	return NewStore(db, cfg.MaxHistory), nil
}

// NewStore wraps an open database. maxHistory <= 0 uses DefaultMaxHistory.
func NewStore(db *badger.DB, maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Store{db: db, maxHistory: maxHistory, now: time.Now}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// MaxHistory returns the history cap.
func (s *Store) MaxHistory() int {
	return s.maxHistory
}

func prefsKey(userID string) []byte {
	return []byte(prefsKeyPrefix + userID)
}

// Get returns the preferences for userID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string) (*Preferences, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p *Preferences
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		p, err = getTxn(txn, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Put replaces the preferences for p.UserID. History is normalized
// (duplicates removed, capped) and UpdatedAt is set.
func (s *Store) Put(ctx context.Context, p *Preferences) (*Preferences, error) {
	if p == nil || p.UserID == "" {
		return nil, ErrEmptyUserID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := &Preferences{
		UserID:      p.UserID,
		History:     s.normalize(nil, p.History),
		MaxCalories: p.MaxCalories,
		UpdatedAt:   s.now().UTC(),
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return setTxn(txn, stored)
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// AppendHistory records newly consumed meals for userID, creating the
// document if needed. A re-consumed meal moves to the most recent position.
func (s *Store) AppendHistory(ctx context.Context, userID string, ids ...int64) (*Preferences, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	s.appendMu.Lock()
	defer s.appendMu.Unlock()

	var out *Preferences
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := s.db.Update(func(txn *badger.Txn) error {
			p, err := getTxn(txn, userID)
			if errors.Is(err, ErrNotFound) {
				p = &Preferences{UserID: userID}
			} else if err != nil {
				return err
			}

			p.History = s.normalize(p.History, ids)
			p.UpdatedAt = s.now().UTC()
			out = p
			return setTxn(txn, p)
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("append history for %s: %w", userID, badger.ErrConflict)
}

// Delete removes the preferences for userID. Deleting a missing user is
// not an error.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(prefsKey(userID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete preferences: %w", err)
		}
		return nil
	})
}

// normalize appends ids to history, moving repeats to the end, and keeps
// the most recent maxHistory entries.
func (s *Store) normalize(history, ids []int64) []int64 {
	out := make([]int64, 0, len(history)+len(ids))
	pos := make(map[int64]int, len(history)+len(ids))

	add := func(id int64) {
		if i, ok := pos[id]; ok {
			out = append(out[:i], out[i+1:]...)
			for j := i; j < len(out); j++ {
				pos[out[j]] = j
			}
		}
		pos[id] = len(out)
		out = append(out, id)
	}
	for _, id := range history {
		add(id)
	}
	for _, id := range ids {
		add(id)
	}

	if len(out) > s.maxHistory {
		out = out[len(out)-s.maxHistory:]
	}
	return out
}

func getTxn(txn *badger.Txn, userID string) (*Preferences, error) {
	item, err := txn.Get(prefsKey(userID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	var p Preferences
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &p)
	}); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	if p.History == nil {
		p.History = []int64{}
	}
	return &p, nil
}

func setTxn(txn *badger.Txn, p *Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := txn.Set(prefsKey(p.UserID), data); err != nil {
		return fmt.Errorf("set preferences: %w", err)
	}
	return nil
}
