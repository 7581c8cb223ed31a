package filemanager

import (
	"context"
	"fmt"

	"fiddle-server/fiddle"
	"fiddle-server/ipc"
)

// Open reads the fiddle at path and replaces the editor state with it. An
// empty path asks the front end to show its open dialog instead.
func (m *Manager) Open(ctx context.Context, path string) error {
	if path == "" {
		m.send(ipc.OpenFiddleDialog)
		return nil
	}
	files, err := m.reader.Read(path)
	if err != nil {
		return err
	}
	m.replace(ctx, files, fiddle.Options{FilePath: path})
	return nil
}

// OpenTemplate loads the named template and replaces the editor state with it.
func (m *Manager) OpenTemplate(ctx context.Context, name string) error {
	if m.templates == nil {
		return fmt.Errorf("open template %s: %w", name, fiddle.ErrTemplateNotFound)
	}
	files, err := m.templates.Read(name)
	if err != nil {
		return fmt.Errorf("open template %s: %w", name, err)
	}
	m.replace(ctx, files, fiddle.Options{TemplateName: name})
	return nil
}

func (m *Manager) replace(ctx context.Context, files fiddle.Files, opts fiddle.Options) {
	files = m.verifyExtraFiles(ctx, files)
	if !m.state.Replace(ctx, files, opts) {
		m.log.WithField("source", opts).Info("replace cancelled")
		return
	}
	m.log.WithField("source", opts).WithField("files", len(files)).Info("fiddle opened")
	m.send(ipc.FiddleReplaced, opts)
}

// verifyExtraFiles asks about each file that is neither a default editor, a
// known custom editor nor package.json. Accepted files become custom editors;
// the others are dropped.
func (m *Manager) verifyExtraFiles(ctx context.Context, files fiddle.Files) fiddle.Files {
	known := map[string]bool{fiddle.PackageJSONName: true}
	for _, name := range fiddle.DefaultEditors {
		known[name] = true
	}
	for _, name := range m.state.CustomEditors() {
		known[name] = true
	}

	for _, name := range files.Names() {
		if known[name] {
			continue
		}
		ok, err := m.verifier.VerifyCreateCustomEditor(ctx, name)
		if err != nil {
			m.log.WithError(err).WithField("file", name).Warn("could not verify custom editor")
			ok = false
		}
		if !ok {
			delete(files, name)
			continue
		}
		if err := m.state.AddCustomEditor(name); err != nil {
			m.log.WithError(err).WithField("file", name).Warn("failed to persist custom editor")
		}
	}
	return files
}
