package filemanager

import (
	"context"

	"fiddle-server/ipc"
)

func (m *Manager) listen() {
	m.bridge.On(ipc.OpenFiddle, m.onOpenFiddle)
	m.bridge.On(ipc.OpenTemplate, m.onOpenTemplate)
	m.bridge.On(ipc.SaveFiddle, func(ctx context.Context, msg ipc.Message) {
		m.onSave(ctx, msg)
	})
	m.bridge.On(ipc.SaveFiddleForge, func(ctx context.Context, msg ipc.Message) {
		m.onSave(ctx, msg, ForgeTransform)
	})
}

// onOpenFiddle ignores a first argument that is not a string path. Without
// arguments the open dialog is requested.
func (m *Manager) onOpenFiddle(ctx context.Context, msg ipc.Message) {
	path, ok := msg.StringArg(0)
	if !ok && len(msg.Args) > 0 {
		return
	}
	if err := m.Open(ctx, path); err != nil {
		m.log.WithError(err).WithField("path", path).Error("failed to open fiddle")
	}
}

func (m *Manager) onOpenTemplate(ctx context.Context, msg ipc.Message) {
	name, ok := msg.StringArg(0)
	if !ok {
		return
	}
	if err := m.OpenTemplate(ctx, name); err != nil {
		m.log.WithError(err).WithField("template", name).Error("failed to open template")
	}
}

// onSave treats a missing path as "ask for one"; a path of the wrong type is
// ignored.
func (m *Manager) onSave(ctx context.Context, msg ipc.Message, transforms ...Transform) {
	path, ok := msg.StringArg(0)
	if !ok && len(msg.Args) > 0 {
		return
	}
	m.Save(ctx, path, transforms...)
}
