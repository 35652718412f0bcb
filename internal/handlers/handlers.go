package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"tangled.org/arabica.social/brewjournal/internal/autofill"
	"tangled.org/arabica.social/brewjournal/internal/database"
	"tangled.org/arabica.social/brewjournal/internal/journal"
	"tangled.org/arabica.social/brewjournal/internal/models"
)

// Handler contains all HTTP handler methods and their dependencies.
type Handler struct {
	journal *journal.Service
}

// NewHandler creates a Handler backed by the journal service.
func NewHandler(svc *journal.Service) *Handler {
	return &Handler{journal: svc}
}

// validationErrors are client mistakes reported back verbatim with 400
var validationErrors = []error{
	models.ErrRoasterRequired,
	models.ErrCountryRequired,
	models.ErrPurchaseDateRequired,
	models.ErrWeightRequired,
	models.ErrInvalidStatus,
	models.ErrBeanRequired,
	models.ErrDateRequired,
	models.ErrRecipeNameRequired,
	models.ErrGrinderRequired,
	models.ErrDripperRequired,
	models.ErrPourStepsRequired,
	models.ErrCafeNameRequired,
	models.ErrBeanNameRequired,
	models.ErrInvalidStepTime,
	journal.ErrBeanNotFound,
	journal.ErrInvalidDose,
	errEmptyBody,
	errInvalidBody,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// errorStatus maps a service error onto the status code and message sent to
// the client. Anything unrecognized is a storage failure and its details stay
// in the log.
func errorStatus(err error, entityName string) (int, string) {
	var maxErr *http.MaxBytesError
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, capitalize(entityName) + " not found"
	case errors.Is(err, journal.ErrAutofillUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, autofill.ErrLookupFailed):
		return http.StatusBadGateway, autofill.ErrLookupFailed.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeError logs err at a level matching its status and writes the response.
func writeError(w http.ResponseWriter, err error, entityName, action string) {
	status, msg := errorStatus(err, entityName)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("entity", entityName).Msg("Failed to " + action + " " + entityName)
	} else {
		log.Debug().Err(err).Str("entity", entityName).Int("status", status).Msg("Rejected " + action + " " + entityName)
	}
	http.Error(w, msg, status)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// decodeRequest decodes a JSON body into target. The Content-Type is not
// checked since the legacy front-end posts JSON as text/plain.
func decodeRequest(r *http.Request, target interface{}) error {
	if r.Body == nil {
		return errEmptyBody
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

var (
	errEmptyBody   = errors.New("request body is required")
	errInvalidBody = errors.New("invalid request body")
)

// decode reads the request body and writes a 400 on failure. It reports
// whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, target interface{}, entityName string) bool {
	if err := decodeRequest(r, target); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		log.Warn().Err(err).Msg("Failed to decode " + entityName + " request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// writeJSON encodes and writes a JSON response
func writeJSON(w http.ResponseWriter, v interface{}, entityName string) {
	writeJSONStatus(w, http.StatusOK, v, entityName)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}, entityName string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode " + entityName + " response")
	}
}

// pathID returns the {id} path value, writing a 400 when it is missing.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "ID is required", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, "health")
}
