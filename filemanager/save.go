package filemanager

import (
	"context"
	"fmt"
	"path/filepath"

	"fiddle-server/fiddle"
	"fiddle-server/ipc"
)

// SaveReport lists what a Save did, per file name.
type SaveReport struct {
	Dir     string            `json:"dir"`
	Written []string          `json:"written"`
	Removed []string          `json:"removed"`
	Failed  map[string]string `json:"failed"`
}

// Save writes the fiddle to dir, one file per entry. Empty entries delete a
// previously saved file of that name instead of writing an empty one. A
// failing entry is reported over the bridge and the remaining entries are
// still saved. An empty dir asks the front end for one and writes nothing.
func (m *Manager) Save(ctx context.Context, dir string, transforms ...Transform) SaveReport {
	report := SaveReport{Dir: dir, Written: []string{}, Removed: []string{}, Failed: map[string]string{}}
	if dir == "" {
		m.send(ipc.SaveFiddleDialog)
		return report
	}

	opts := m.pkg
	files := m.GetFiles(ctx, &opts, transforms...)
	for _, name := range files.Names() {
		path := filepath.Join(dir, name)
		removed, err := m.saveEntry(path, files[name])
		if err != nil {
			report.Failed[name] = err.Error()
			m.log.WithError(err).WithField("path", path).Warn("failed to save file")
			m.send(ipc.SaveFiddleError, fmt.Sprintf("Failed to save file: %s. Error: %v", path, err))
			continue
		}
		if removed {
			report.Removed = append(report.Removed, name)
		} else if files[name] != "" {
			report.Written = append(report.Written, name)
		}
	}

	if len(report.Failed) == 0 {
		m.state.MarkSaved(dir)
		m.send(ipc.FiddleSaved, dir)
	}
	m.log.WithField("dir", dir).
		WithField("written", len(report.Written)).
		WithField("removed", len(report.Removed)).
		WithField("failed", len(report.Failed)).
		Info("fiddle saved")
	return report
}

// saveEntry writes content to path, or removes path if content is empty and
// the file exists. It reports whether a removal happened.
func (m *Manager) saveEntry(path, content string) (bool, error) {
	if content != "" {
		return false, m.fsys.WriteFile(path, []byte(content))
	}
	exists, err := m.fsys.Exists(path)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if err := m.fsys.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}

// SaveToTemp writes the fiddle into a fresh temp directory and returns it.
// Unlike Save, any failure aborts the whole operation.
func (m *Manager) SaveToTemp(ctx context.Context, opts fiddle.PackageOptions) (string, error) {
	dir, err := m.fsys.MkdirTemp("electron-fiddle-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	m.temp.add(dir)

	files := m.GetFiles(ctx, &opts)
	for _, name := range files.Names() {
		content := files[name]
		if content == "" {
			continue
		}
		if err := m.fsys.WriteFile(filepath.Join(dir, name), []byte(content)); err != nil {
			m.Cleanup(dir)
			return "", fmt.Errorf("failed to write %s to temp directory: %w", name, err)
		}
	}
	m.log.WithField("dir", dir).Debug("fiddle staged")
	return dir, nil
}

// Staged reports whether dir was created by SaveToTemp and not yet cleaned up.
func (m *Manager) Staged(dir string) bool {
	return m.temp.has(dir)
}

// Cleanup removes dir if it exists and reports whether it was removed. It
// never fails; errors are logged.
func (m *Manager) Cleanup(dir string) bool {
	exists, err := m.fsys.Exists(dir)
	if err != nil {
		m.log.WithError(err).WithField("dir", dir).Warn("cleanup: could not stat directory")
		return false
	}
	if !exists {
		return false
	}
	if err := m.fsys.RemoveAll(dir); err != nil {
		m.log.WithError(err).WithField("dir", dir).Warn("cleanup failed")
		return false
	}
	m.temp.remove(dir)
	return true
}
