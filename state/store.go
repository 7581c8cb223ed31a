// Package state persists application state across runs: the custom editor
// names and the recently opened fiddles.
package state

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store handles loading, saving, and updating the application state file.
type Store struct {
	mu       sync.RWMutex
	filePath string
	state    AppState
}

// NewStore loads the state from filePath, or starts empty if the file does not
// exist. An empty filePath keeps the state in memory only. Returns an error
// only on unexpected I/O failures.
func NewStore(filePath string) (*Store, error) {
	s := &Store{filePath: filePath}
	s.state = normalize(s.state)
	if filePath == "" {
		return s, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, err
	}
	s.state = normalize(s.state)
	return s, nil
}

// Get returns a snapshot of the current state.
func (s *Store) Get() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Save writes state to disk, then updates in-memory state.
func (s *Store) Save(state AppState) error {
	state = normalize(state)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeAtomic(state); err != nil {
		return err
	}
	s.state = copyState(state)
	return nil
}

// AddCustomEditor appends name to the custom editor list. Adding a name that
// is already present is a no-op.
func (s *Store) AddCustomEditor(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.state.CustomEditors {
		if n == name {
			return nil
		}
	}
	next := copyState(s.state)
	next.CustomEditors = append(next.CustomEditors, name)
	if err := s.writeAtomic(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// MarkOpened prepends path to the recently opened list, deduplicating and
// capping it at 10 entries.
func (s *Store) MarkOpened(path string) error {
	if path == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	newList := []string{path}
	for _, p := range s.state.RecentlyOpened {
		if p == path {
			continue
		}
		newList = append(newList, p)
		if len(newList) == maxRecent {
			break
		}
	}

	next := copyState(s.state)
	next.RecentlyOpened = newList
	if err := s.writeAtomic(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// writeAtomic writes to a temp file then renames it over filePath.
// Caller must hold s.mu.
func (s *Store) writeAtomic(state AppState) error {
	if s.filePath == "" {
		return nil
	}
	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp := s.filePath + ".tmp"
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}

func normalize(s AppState) AppState {
	if s.CustomEditors == nil {
		s.CustomEditors = []string{}
	}
	if s.RecentlyOpened == nil {
		s.RecentlyOpened = []string{}
	}
	return s
}

func copyState(s AppState) AppState {
	ce := make([]string, len(s.CustomEditors))
	copy(ce, s.CustomEditors)
	ro := make([]string, len(s.RecentlyOpened))
	copy(ro, s.RecentlyOpened)
	return AppState{CustomEditors: ce, RecentlyOpened: ro}
}
