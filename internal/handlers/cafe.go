package handlers

import (
	"net/http"

	"tangled.org/arabica.social/brewjournal/internal/models"
)

func (h *Handler) HandleCafeLogList(w http.ResponseWriter, r *http.Request) {
	logs, err := h.journal.ListCafeLogs(r.Context())
	if err != nil {
		writeError(w, err, "cafe log", "list")
		return
	}
	writeJSON(w, logs, "cafe logs")
}

// HandleCafeLogGrouped lists cafe visits grouped by cafe.
func (h *Handler) HandleCafeLogGrouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.journal.GroupedCafeLogs(r.Context())
	if err != nil {
		writeError(w, err, "cafe log", "group")
		return
	}
	writeJSON(w, groups, "cafe groups")
}

func (h *Handler) HandleCafeLogCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCafeLogRequest
	if !decode(w, r, &req, "cafe log") {
		return
	}

	entry, err := h.journal.CreateCafeLog(r.Context(), &req)
	if err != nil {
		writeError(w, err, "cafe log", "create")
		return
	}
	writeJSONStatus(w, http.StatusCreated, entry, "cafe log")
}

func (h *Handler) HandleCafeLogGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.journal.GetCafeLog(r.Context(), id)
	if err != nil {
		writeError(w, err, "cafe log", "get")
		return
	}
	writeJSON(w, entry, "cafe log")
}

func (h *Handler) HandleCafeLogUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.CreateCafeLogRequest
	if !decode(w, r, &req, "cafe log") {
		return
	}

	entry, err := h.journal.UpdateCafeLog(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "cafe log", "update")
		return
	}
	writeJSON(w, entry, "cafe log")
}

func (h *Handler) HandleCafeLogDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.journal.DeleteCafeLog(r.Context(), id); err != nil {
		writeError(w, err, "cafe log", "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
