// Package filemanager moves fiddles between the editor state and the disk.
// It listens on the IPC bridge for the front end's open and save requests and
// reports dialog requests and per-file failures back over it.
package filemanager

import (
	"context"

	"github.com/sirupsen/logrus"

	"fiddle-server/disk"
	"fiddle-server/fiddle"
	"fiddle-server/ipc"
)

// EditorState is the part of the editor state the file manager uses.
type EditorState interface {
	Values() fiddle.Files
	CustomEditors() []string
	AddCustomEditor(name string) error
	Replace(ctx context.Context, files fiddle.Files, opts fiddle.Options) bool
	Metadata() fiddle.Metadata
	MarkSaved(dir string)
}

// FiddleReader loads a fiddle from a directory.
type FiddleReader interface {
	Read(dir string) (fiddle.Files, error)
}

// TemplateReader loads a fiddle by template name.
type TemplateReader interface {
	Read(name string) (fiddle.Files, error)
}

// Options wires a Manager.
type Options struct {
	FS        disk.FileSystem
	State     EditorState
	Reader    FiddleReader
	Templates TemplateReader
	Bridge    *ipc.Bridge
	Verifier  CustomEditorVerifier
	// Package controls the package.json written by Save.
	Package fiddle.PackageOptions
	Log     logrus.FieldLogger
}

// Manager is the file manager. Operations are not serialized against each
// other.
type Manager struct {
	fsys      disk.FileSystem
	state     EditorState
	reader    FiddleReader
	templates TemplateReader
	bridge    *ipc.Bridge
	verifier  CustomEditorVerifier
	pkg       fiddle.PackageOptions
	temp      *tempDirs
	log       logrus.FieldLogger
}

// New creates a Manager and registers its handlers on the bridge.
func New(o Options) *Manager {
	verifier := o.Verifier
	if verifier == nil {
		verifier = RejectAll
	}
	m := &Manager{
		fsys:      o.FS,
		state:     o.State,
		reader:    o.Reader,
		templates: o.Templates,
		bridge:    o.Bridge,
		verifier:  verifier,
		pkg:       o.Package,
		temp:      newTempDirs(),
		log:       o.Log,
	}
	m.listen()
	return m
}

// Close removes every temp directory created by SaveToTemp that has not been
// cleaned up yet.
func (m *Manager) Close() {
	for _, dir := range m.temp.drain() {
		m.Cleanup(dir)
	}
}

func (m *Manager) send(event string, args ...any) {
	if err := m.bridge.Send(event, args...); err != nil {
		m.log.WithError(err).WithField("event", event).Error("failed to send bridge event")
	}
}
