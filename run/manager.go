// Package run stages fiddles to a temp directory and runs them under a pty.
package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"fiddle-server/fiddle"
	"fiddle-server/ipc"
)

var ErrNotFound = errors.New("run not found")

// Stager writes the current fiddle somewhere runnable and removes it again.
type Stager interface {
	SaveToTemp(ctx context.Context, opts fiddle.PackageOptions) (string, error)
	Cleanup(dir string) bool
}

// Notifier receives lifecycle events.
type Notifier interface {
	Send(event string, args ...any) error
}

// SpawnFunc starts r and must arrange for onExit(r.ID) once it ends.
type SpawnFunc func(r *Run, onExit func(string)) error

type Config struct {
	Command []string
	Package fiddle.PackageOptions
	Spawn   SpawnFunc // nil → spawnPTY
}

type Manager struct {
	mu      sync.RWMutex
	runs    map[string]*Run
	stager  Stager
	notify  Notifier
	cfg     Config
	spawnFn SpawnFunc
	log     logrus.FieldLogger
}

func NewManager(stager Stager, notify Notifier, cfg Config, log logrus.FieldLogger) *Manager {
	spawn := cfg.Spawn
	if spawn == nil {
		spawn = spawnPTY
	}
	return &Manager{
		runs:    make(map[string]*Run),
		stager:  stager,
		notify:  notify,
		cfg:     cfg,
		spawnFn: spawn,
		log:     log,
	}
}

// MockSpawnFn is an os.Pipe-based spawn function for testing.
// Data written via WriteInput is echoed back as output.
func MockSpawnFn(r *Run, onExit func(string)) error {
	pr, pw, err := os.Pipe()
	if err != nil {
		return err
	}
	r.ptmx = pw
	go func() {
		defer pr.Close()
		readLoop(r, pr, onExit)
	}()
	return nil
}

// Start stages the current fiddle and runs the configured command in it.
func (m *Manager) Start(ctx context.Context) (*Run, error) {
	if len(m.cfg.Command) == 0 {
		return nil, errors.New("no run command configured")
	}
	dir, err := m.stager.SaveToTemp(ctx, m.cfg.Package)
	if err != nil {
		return nil, fmt.Errorf("failed to stage fiddle: %w", err)
	}

	r := &Run{
		ID:         uuid.New().String(),
		Dir:        dir,
		Command:    append([]string(nil), m.cfg.Command...),
		StartedAt:  time.Now(),
		scrollback: newScrollbackBuf(),
		done:       make(chan struct{}),
	}

	// finish may run before spawnFn returns.
	m.mu.Lock()
	m.runs[r.ID] = r
	m.mu.Unlock()

	if err := m.spawnFn(r, m.finish); err != nil {
		m.mu.Lock()
		delete(m.runs, r.ID)
		m.mu.Unlock()
		m.stager.Cleanup(dir)
		return nil, fmt.Errorf("failed to start %v: %w", m.cfg.Command, err)
	}

	m.log.WithField("run", r.ID).WithField("dir", dir).Info("fiddle started")
	return r, nil
}

func (m *Manager) List() []*Run {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		list = append(list, r)
	}
	return list
}

func (m *Manager) Get(id string) (*Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	return r, ok
}

// Stop kills the run. Cleanup of its directory happens once the process
// has exited.
func (m *Manager) Stop(id string) error {
	m.mu.RLock()
	r, ok := m.runs[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}

	if r.cmd != nil && r.cmd.Process != nil {
		r.cmd.Process.Kill()
	}
	if r.ptmx != nil {
		r.ptmx.Close()
	}
	return nil
}

// StopAll stops every run and waits for them to finish.
func (m *Manager) StopAll() {
	for _, r := range m.List() {
		m.Stop(r.ID)
		<-r.Done()
	}
}

func (m *Manager) finish(id string) {
	m.mu.Lock()
	r, ok := m.runs[id]
	delete(m.runs, id)
	m.mu.Unlock()
	if !ok {
		return
	}

	m.stager.Cleanup(r.Dir)
	if err := m.notify.Send(ipc.FiddleStopped, id); err != nil {
		m.log.WithError(err).WithField("run", id).Warn("failed to announce stopped fiddle")
	}
	m.log.WithField("run", id).Info("fiddle stopped")
}
