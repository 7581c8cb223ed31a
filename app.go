package main

import (
	"fmt"

	"fiddle-server/config"
	"fiddle-server/disk"
	"fiddle-server/editor"
	"fiddle-server/fiddle"
	"fiddle-server/filemanager"
	"fiddle-server/ipc"
	"fiddle-server/run"
	"fiddle-server/state"
)

// app is one wired file manager with everything around it.
type app struct {
	store     *state.Store
	editor    *editor.State
	bridge    *ipc.Bridge
	catalog   *fiddle.Catalog
	files     *filemanager.Manager
	runs      *run.Manager
	pkg       fiddle.PackageOptions
	staticDir string
}

// newApp wires the components from cfg. ask is the verifier used when the
// custom editor policy is "ask".
func newApp(ask func(*ipc.Bridge) filemanager.CustomEditorVerifier) (*app, error) {
	store, err := state.NewStore(cfg.StateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	fsys := disk.NewOS()
	reader := fiddle.NewReader(fsys)
	bridge := ipc.NewBridge(log)
	pkg := fiddle.PackageOptions{
		IncludeDependencies: cfg.IncludeDependencies,
		IncludeElectron:     cfg.IncludeElectron,
	}

	a := &app{
		store:     store,
		editor:    editor.New(store, fiddle.Metadata{ElectronVersion: cfg.ElectronVersion}, log),
		bridge:    bridge,
		catalog:   fiddle.NewCatalog(reader, cfg.TemplatesDir),
		pkg:       pkg,
		staticDir: cfg.StaticDir,
	}

	var verifier filemanager.CustomEditorVerifier
	switch cfg.CustomEditors {
	case config.PolicyAccept:
		verifier = filemanager.AcceptAll
	case config.PolicyReject:
		verifier = filemanager.RejectAll
	default:
		verifier = ask(bridge)
	}

	a.files = filemanager.New(filemanager.Options{
		FS:        fsys,
		State:     a.editor,
		Reader:    reader,
		Templates: a.catalog,
		Bridge:    bridge,
		Verifier:  verifier,
		Package:   pkg,
		Log:       log,
	})
	a.runs = run.NewManager(a.files, bridge, run.Config{
		Command: cfg.RunCommand,
		Package: pkg,
	}, log)
	return a, nil
}

// close stops every run and removes the temp dirs staged by this process.
func (a *app) close() {
	a.runs.StopAll()
	a.files.Close()
}
