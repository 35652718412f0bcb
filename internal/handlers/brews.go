package handlers

import (
	"net/http"

	"tangled.org/arabica.social/brewjournal/internal/models"
)

// HandleBrewList lists brews newest first, optionally filtered by ?q= against
// the recipe name and the bean's roaster.
func (h *Handler) HandleBrewList(w http.ResponseWriter, r *http.Request) {
	brews, err := h.journal.ListBrews(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err, "brew", "list")
		return
	}
	writeJSON(w, brews, "brews")
}

func (h *Handler) HandleBrewCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBrewRequest
	if !decode(w, r, &req, "brew") {
		return
	}

	brew, err := h.journal.LogBrew(r.Context(), &req)
	if err != nil {
		writeError(w, err, "brew", "log")
		return
	}
	writeJSONStatus(w, http.StatusCreated, brew, "brew")
}

func (h *Handler) HandleBrewGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	brew, err := h.journal.GetBrew(r.Context(), id)
	if err != nil {
		writeError(w, err, "brew", "get")
		return
	}
	writeJSON(w, brew, "brew")
}

func (h *Handler) HandleBrewUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.CreateBrewRequest
	if !decode(w, r, &req, "brew") {
		return
	}

	brew, err := h.journal.UpdateBrew(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "brew", "update")
		return
	}
	writeJSON(w, brew, "brew")
}

func (h *Handler) HandleBrewDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.journal.DeleteBrew(r.Context(), id); err != nil {
		writeError(w, err, "brew", "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
