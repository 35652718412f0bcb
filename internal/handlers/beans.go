package handlers

import (
	"net/http"

	"tangled.org/arabica.social/brewjournal/internal/models"
)

// HandleBeanList lists beans, optionally filtered by ?status= and ?q=.
func (h *Handler) HandleBeanList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	beans, err := h.journal.ListBeans(r.Context(), models.BeanFilter{
		Status: q.Get("status"),
		Query:  q.Get("q"),
	})
	if err != nil {
		writeError(w, err, "bean", "list")
		return
	}
	writeJSON(w, beans, "beans")
}

func (h *Handler) HandleBeanCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBeanRequest
	if !decode(w, r, &req, "bean") {
		return
	}

	bean, err := h.journal.CreateBean(r.Context(), &req)
	if err != nil {
		writeError(w, err, "bean", "create")
		return
	}
	writeJSONStatus(w, http.StatusCreated, bean, "bean")
}

func (h *Handler) HandleBeanGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	bean, err := h.journal.GetBean(r.Context(), id)
	if err != nil {
		writeError(w, err, "bean", "get")
		return
	}
	writeJSON(w, bean, "bean")
}

func (h *Handler) HandleBeanUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.UpdateBeanRequest
	if !decode(w, r, &req, "bean") {
		return
	}

	bean, err := h.journal.UpdateBean(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "bean", "update")
		return
	}
	writeJSON(w, bean, "bean")
}

// statusRequest is the body of a bean status change
type statusRequest struct {
	Status string `json:"status"`
}

// HandleBeanStatus marks a bean Active or Finished, keeping every other field.
func (h *Handler) HandleBeanStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if !decode(w, r, &req, "bean status") {
		return
	}

	bean, err := h.journal.SetBeanStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err, "bean", "update status of")
		return
	}
	writeJSON(w, bean, "bean")
}

func (h *Handler) HandleBeanDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.journal.DeleteBean(r.Context(), id); err != nil {
		writeError(w, err, "bean", "delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
