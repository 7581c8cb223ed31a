// Package editor holds the in-memory editor buffers of the current fiddle.
package editor

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"fiddle-server/fiddle"
	"fiddle-server/state"
)

// ReplaceGuard is asked before unsaved edits are thrown away. Returning false
// cancels the replace.
type ReplaceGuard func(ctx context.Context) bool

// State is the editor-state accessor: the buffers, the provenance of the
// current fiddle and the persisted custom editor names.
type State struct {
	mu     sync.RWMutex
	values fiddle.Files
	meta   fiddle.Metadata
	opts   fiddle.Options
	edited bool
	guard  ReplaceGuard

	store *state.Store
	log   logrus.FieldLogger
}

// New creates a State with empty default editors.
func New(store *state.Store, meta fiddle.Metadata, log logrus.FieldLogger) *State {
	values := fiddle.Files{}
	for _, name := range fiddle.DefaultEditors {
		values[name] = ""
	}
	return &State{values: values, meta: meta, store: store, log: log}
}

// SetGuard installs the unsaved-changes guard.
func (s *State) SetGuard(g ReplaceGuard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.guard = g
}

// Values returns a copy of the editor buffers. package.json is not an editor
// and is never part of the result.
func (s *State) Values() fiddle.Files {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.values.Clone()
	delete(out, fiddle.PackageJSONName)
	return out
}

// Update merges edits coming from the front end into the buffers and marks
// the fiddle as edited.
func (s *State) Update(files fiddle.Files) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, content := range files {
		if name == fiddle.PackageJSONName {
			continue
		}
		s.values[name] = content
	}
	s.edited = true
}

// SetValues replaces all buffers. When there are unsaved edits the guard is
// consulted first; false means the user cancelled.
func (s *State) SetValues(ctx context.Context, files fiddle.Files) bool {
	s.mu.RLock()
	guard, edited := s.guard, s.edited
	s.mu.RUnlock()

	if edited && guard != nil && !guard(ctx) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = files.Clone()
	s.edited = false
	return true
}

// Replace swaps in a whole new fiddle and records where it came from.
// Modules and name are picked up from the fiddle's package.json if present.
func (s *State) Replace(ctx context.Context, files fiddle.Files, opts fiddle.Options) bool {
	if !s.SetValues(ctx, files) {
		return false
	}

	s.mu.Lock()
	s.opts = opts
	if content := files[fiddle.PackageJSONName]; content != "" {
		if pkg, err := fiddle.ParsePackage(content); err == nil {
			s.meta.Modules = pkg.Dependencies
			if pkg.Name != "" {
				s.meta.Name = pkg.Name
			}
		} else {
			s.log.WithError(err).Warn("ignoring package.json of opened fiddle")
		}
	} else {
		s.meta.Modules = nil
	}
	s.mu.Unlock()

	if opts.FilePath != "" && s.store != nil {
		if err := s.store.MarkOpened(opts.FilePath); err != nil {
			s.log.WithError(err).Warn("failed to record recently opened fiddle")
		}
	}
	return true
}

// MarkSaved clears the edited flag after a save to dir.
func (s *State) MarkSaved(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edited = false
	s.opts = fiddle.Options{FilePath: dir}
}

// IsEdited reports whether there are unsaved edits.
func (s *State) IsEdited() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edited
}

// Options returns the provenance of the current fiddle.
func (s *State) Options() fiddle.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// Metadata returns a copy of what package.json is derived from.
func (s *State) Metadata() fiddle.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta := s.meta
	if s.meta.Modules != nil {
		meta.Modules = make(map[string]string, len(s.meta.Modules))
		for k, v := range s.meta.Modules {
			meta.Modules[k] = v
		}
	}
	return meta
}

// CustomEditors returns the custom editor names.
func (s *State) CustomEditors() []string {
	if s.store == nil {
		return []string{}
	}
	return s.store.Get().CustomEditors
}

// AddCustomEditor persists name as a custom editor.
func (s *State) AddCustomEditor(name string) error {
	if s.store == nil {
		return nil
	}
	return s.store.AddCustomEditor(name)
}
