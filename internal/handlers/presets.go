package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"tangled.org/arabica.social/brewjournal/internal/models"
)

func (h *Handler) HandlePresetList(w http.ResponseWriter, r *http.Request) {
	presets, err := h.journal.ListPresets(r.Context())
	if err != nil {
		writeError(w, err, "preset", "list")
		return
	}
	writeJSON(w, presets, "presets")
}

func (h *Handler) HandlePresetCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePresetRequest
	if !decode(w, r, &req, "preset") {
		return
	}

	preset, err := h.journal.CreatePreset(r.Context(), &req)
	if err != nil {
		writeError(w, err, "preset", "create")
		return
	}
	writeJSONStatus(w, http.StatusCreated, preset, "preset")
}

// HandlePresetImport stores a batch of presets, sent either as a JSON array or
// as a YAML seed file. Nothing is stored unless every preset is valid.
func (h *Handler) HandlePresetImport(w http.ResponseWriter, r *http.Request) {
	var reqs []models.CreatePresetRequest
	if isYAMLRequest(r) {
		parsed, err := models.ParsePresetsYAML(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			log.Warn().Err(err).Msg("Failed to parse preset import")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reqs = parsed
	} else if !decode(w, r, &reqs, "preset import") {
		return
	}

	if len(reqs) == 0 {
		http.Error(w, "No presets to import", http.StatusBadRequest)
		return
	}

	presets, err := h.journal.ImportPresets(r.Context(), reqs)
	if err != nil {
		writeError(w, err, "preset", "import")
		return
	}
	log.Info().Int("count", len(presets)).Msg("Imported presets")
	writeJSONStatus(w, http.StatusCreated, presets, "presets")
}

func isYAMLRequest(r *http.Request) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	return strings.Contains(ct, "yaml")
}

func (h *Handler) HandlePresetGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	preset, err := h.journal.GetPreset(r.Context(), id)
	if err != nil {
		writeError(w, err, "preset", "get")
		return
	}
	writeJSON(w, preset, "preset")
}

func (h *Handler) HandlePresetUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.CreatePresetRequest
	if !decode(w, r, &req, "preset") {
		return
	}

	preset, err := h.journal.UpdatePreset(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "preset", "update")
		return
	}
	writeJSON(w, preset, "preset")
}

func (h *Handler) HandlePresetDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.journal.DeletePreset(r.Context(), id); err != nil {
		writeError(w, err, "preset", "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePresetApply returns a brew draft filled from the preset. The path value
// may be a preset id or its recipe name; ?beanId= preselects the bean.
func (h *Handler) HandlePresetApply(w http.ResponseWriter, r *http.Request) {
	ref, ok := pathID(w, r)
	if !ok {
		return
	}

	draft, err := h.journal.ApplyPreset(r.Context(), ref, r.URL.Query().Get("beanId"))
	if err != nil {
		writeError(w, err, "preset", fmt.Sprintf("apply %q", ref))
		return
	}
	writeJSON(w, draft, "brew draft")
}
