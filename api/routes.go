package api

import (
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"fiddle-server/editor"
	"fiddle-server/fiddle"
	"fiddle-server/filemanager"
	"fiddle-server/ipc"
	"fiddle-server/run"
	"fiddle-server/state"
)

// Deps is everything the HTTP API is built on.
type Deps struct {
	Files     *filemanager.Manager
	Editor    *editor.State
	Store     *state.Store
	Templates *fiddle.Catalog
	Runs      *run.Manager
	Bridge    *ipc.Bridge
	// Package controls the package.json of temp-staged fiddles.
	Package fiddle.PackageOptions
	// Static is the front end to serve at /. Nil serves the API only.
	Static fs.FS
	Log    logrus.FieldLogger
}

func RegisterRoutes(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: d.Log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(checkOrigin)

	h := &handler{Deps: d}

	// Fiddle
	r.Get("/api/fiddle", h.getFiddle)
	r.Post("/api/fiddle/temp", h.stageFiddle)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Put("/api/fiddle/editors", h.putEditors)
		r.Post("/api/fiddle/open", h.openFiddle)
		r.Post("/api/fiddle/save", h.saveFiddle)
		r.Post("/api/fiddle/save-forge", h.saveFiddleForge)
		r.Delete("/api/fiddle/temp", h.cleanupTemp)
	})

	// Templates
	r.Get("/api/templates", h.listTemplates)
	r.Post("/api/templates/{name}/open", h.openTemplate)

	r.Get("/api/state", h.getState)

	// IPC bridge
	r.Get("/api/ipc/ws", h.handleBridgeWS)

	// Runs
	r.Get("/api/runs", h.listRuns)
	r.Post("/api/runs", h.startRun)
	r.Delete("/api/runs/{id}", h.stopRun)
	r.Get("/api/runs/{id}/ws", h.handleRunWS)

	if d.Static != nil {
		r.Get("/", serveFile(d.Static, "index.html"))
		r.Get("/*", http.FileServer(http.FS(d.Static)).ServeHTTP)
	}

	return r
}

// serveFile returns a handler that reads a single file from fsys and sends it.
// http.FileServer would redirect a path ending in index.html to "./".
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type handler struct {
	Deps
}
