package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"fiddle-server/fiddle"
	"fiddle-server/filemanager"
)

type fiddleResponse struct {
	Files         fiddle.Files   `json:"files"`
	Options       fiddle.Options `json:"options"`
	Edited        bool           `json:"edited"`
	CustomEditors []string       `json:"customEditors"`
}

type pathRequest struct {
	Path string `json:"path"`
}

type dirRequest struct {
	Dir string `json:"dir"`
}

func (h *handler) getFiddle(w http.ResponseWriter, r *http.Request) {
	opts := fiddle.DefaultPackageOptions
	writeJSON(w, http.StatusOK, fiddleResponse{
		Files:         h.Files.GetFiles(r.Context(), &opts),
		Options:       h.Editor.Options(),
		Edited:        h.Editor.IsEdited(),
		CustomEditors: h.Editor.CustomEditors(),
	})
}

func (h *handler) putEditors(w http.ResponseWriter, r *http.Request) {
	var files fiddle.Files
	if err := json.NewDecoder(r.Body).Decode(&files); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	for name := range files {
		if !fiddle.ValidName(name) {
			http.Error(w, "invalid file name", http.StatusBadRequest)
			return
		}
	}
	h.Editor.Update(files)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) openFiddle(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Files.Open(r.Context(), req.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.Error(w, "fiddle not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to open fiddle", http.StatusInternalServerError)
		return
	}
	if req.Path == "" {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	h.getFiddle(w, r)
}

func (h *handler) saveFiddle(w http.ResponseWriter, r *http.Request) {
	h.save(w, r)
}

func (h *handler) saveFiddleForge(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, filemanager.ForgeTransform)
}

// save answers 202 when the dialog was requested instead of saving. Per-file
// failures are listed in the report; they do not fail the request.
func (h *handler) save(w http.ResponseWriter, r *http.Request, transforms ...filemanager.Transform) {
	var req pathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	report := h.Files.Save(r.Context(), req.Path, transforms...)
	if req.Path == "" {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handler) stageFiddle(w http.ResponseWriter, r *http.Request) {
	dir, err := h.Files.SaveToTemp(r.Context(), h.Package)
	if err != nil {
		http.Error(w, "failed to stage fiddle", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, dirRequest{Dir: dir})
}

func (h *handler) cleanupTemp(w http.ResponseWriter, r *http.Request) {
	var req dirRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Dir == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !h.Files.Staged(req.Dir) {
		http.Error(w, "not a staged directory", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": h.Files.Cleanup(req.Dir)})
}
