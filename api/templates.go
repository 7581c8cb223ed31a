package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"fiddle-server/fiddle"
)

func (h *handler) listTemplates(w http.ResponseWriter, r *http.Request) {
	names, err := h.Templates.List()
	if err != nil {
		http.Error(w, "failed to list templates", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *handler) openTemplate(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, "invalid template name", http.StatusBadRequest)
		return
	}
	if err := h.Files.OpenTemplate(r.Context(), name); err != nil {
		switch {
		case errors.Is(err, fiddle.ErrInvalidTemplate):
			http.Error(w, "invalid template name", http.StatusBadRequest)
		case errors.Is(err, fiddle.ErrTemplateNotFound):
			http.Error(w, "template not found", http.StatusNotFound)
		default:
			http.Error(w, "failed to open template", http.StatusInternalServerError)
		}
		return
	}
	h.getFiddle(w, r)
}

func (h *handler) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Get())
}
