package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"tangled.org/arabica.social/brewjournal/internal/models"
	"tangled.org/arabica.social/brewjournal/internal/suggestions"
)

// maxSuggestions caps the limit query parameter
const maxSuggestions = 50

// HandleData returns every collection in one response, the way the dashboard
// loads on startup.
func (h *Handler) HandleData(w http.ResponseWriter, r *http.Request) {
	snap, err := h.journal.Snapshot(r.Context())
	if err != nil {
		writeError(w, err, "journal", "load")
		return
	}
	writeJSON(w, snap, "journal")
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.journal.Stats(r.Context())
	if err != nil {
		writeError(w, err, "stats", "compute")
		return
	}
	writeJSON(w, stats, "stats")
}

// HandleCost prices a dose of a bean: /api/cost?beanId=...&dose=18
func (h *Handler) HandleCost(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	beanID := strings.TrimSpace(q.Get("beanId"))
	if beanID == "" {
		http.Error(w, models.ErrBeanRequired.Error(), http.StatusBadRequest)
		return
	}
	dose, err := strconv.ParseFloat(q.Get("dose"), 64)
	if err != nil || !models.Finite(dose) {
		http.Error(w, "dose must be a number", http.StatusBadRequest)
		return
	}

	estimate, err := h.journal.Cost(r.Context(), beanID, dose)
	if err != nil {
		writeError(w, err, "bean", "price")
		return
	}
	writeJSON(w, estimate, "cost")
}

func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.FormOptions{
		Statuses:     models.BeanStatuses,
		Processes:    models.Processes,
		FilterTypes:  models.FilterTypes,
		Flavors:      models.CommonFlavors,
		CountryFlags: models.CountryFlags,
		DefaultPours: models.DefaultPourSequence(),
		Autofill:     h.journal.AutofillEnabled(),
	}, "options")
}

// HandleAutofill completes a bean draft from published details. Nothing is stored.
func (h *Handler) HandleAutofill(w http.ResponseWriter, r *http.Request) {
	var draft models.CreateBeanRequest
	if !decode(w, r, &draft, "autofill") {
		return
	}

	result, err := h.journal.Autofill(r.Context(), &draft)
	if err != nil {
		writeError(w, err, "bean details", "look up")
		return
	}
	writeJSON(w, result, "autofill")
}

// HandleSuggestions offers previously entered values for auto-complete:
// /api/suggestions/{kind}?q=...&limit=10
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if !suggestions.Known(kind) {
		http.Error(w, "Unknown suggestion kind", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	limit := suggestions.DefaultLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxSuggestions)
	}

	results, err := h.journal.Suggest(r.Context(), kind, q.Get("q"), limit)
	if err != nil {
		writeError(w, err, "suggestions", "search")
		return
	}
	writeJSON(w, results, "suggestions")
}
