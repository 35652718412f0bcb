package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"tangled.org/arabica.social/brewjournal/internal/models"
)

// Legacy action API. The original front-end talks to a single endpoint,
// naming the operation in ?action= (reads) or the "action" body field
// (writes), and expects every reply wrapped in an envelope:
//
//	{"status":"success","data":...}
//	{"status":"error","message":"..."}
//
// Envelope replies are always 200 since that client only reads the message
// from successful HTTP responses.

var errUnknownAction = errors.New("invalid action")

type envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	writeJSON(w, envelope{Status: "success", Data: data}, "exec")
}

func writeEnvelopeError(w http.ResponseWriter, err error, action string) {
	status, msg := errorStatus(err, "record")
	if errors.Is(err, errUnknownAction) {
		msg = err.Error()
	} else if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("action", action).Msg("Legacy action failed")
	}
	writeJSON(w, envelope{Status: "error", Message: msg}, "exec")
}

// legacyBrew carries pour steps as the JSON string the sheet stored
type legacyBrew struct {
	*models.Brew
	PourSteps string `json:"pourSteps"`
}

type legacyPreset struct {
	*models.Preset
	PourSteps string `json:"pourSteps"`
}

func toLegacyBrews(brews []*models.Brew) []legacyBrew {
	out := make([]legacyBrew, len(brews))
	for i, b := range brews {
		out[i] = legacyBrew{Brew: b, PourSteps: b.PourSteps.LegacyString()}
	}
	return out
}

func toLegacyPresets(presets []*models.Preset) []legacyPreset {
	out := make([]legacyPreset, len(presets))
	for i, p := range presets {
		steps := p.PourSteps.LegacyString()
		if len(p.PourSteps) == 0 && p.Notes != "" {
			// Guide-only presets show their written guide
			steps = p.Notes
		}
		out[i] = legacyPreset{Preset: p, PourSteps: steps}
	}
	return out
}

// HandleExecGet serves the legacy read actions.
func (h *Handler) HandleExecGet(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	ctx := r.Context()

	var (
		data interface{}
		err  error
	)
	switch action {
	case "getBeans":
		data, err = h.journal.ListBeans(ctx, models.BeanFilter{})
	case "getPresets":
		var presets []*models.Preset
		presets, err = h.journal.ListPresets(ctx)
		data = toLegacyPresets(presets)
	case "getHistory":
		var brews []*models.Brew
		brews, err = h.journal.ListBrews(ctx, "")
		data = toLegacyBrews(brews)
	case "getCafeLogs":
		data, err = h.journal.ListCafeLogs(ctx)
	default:
		err = fmt.Errorf("%w: %q", errUnknownAction, action)
	}
	if err != nil {
		writeEnvelopeError(w, err, action)
		return
	}
	writeEnvelope(w, data)
}

// execRequest holds the fields of legacy write actions that are not part of a
// record body.
type execRequest struct {
	Action     string `json:"action"`
	ID         string `json:"id"`
	Status     string `json:"status"`
	RecipeName string `json:"recipeName"`
}

// HandleExecPost serves the legacy write actions. The body is JSON whatever
// the Content-Type says.
func (h *Handler) HandleExecPost(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeRequest(r, &raw); err != nil {
		writeEnvelopeError(w, err, "")
		return
	}

	var req execRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeEnvelopeError(w, fmt.Errorf("%w: %v", errInvalidBody, err), "")
		return
	}

	data, err := h.exec(r, req, raw)
	if err != nil {
		writeEnvelopeError(w, err, req.Action)
		return
	}
	writeEnvelope(w, data)
}

func (h *Handler) exec(r *http.Request, req execRequest, raw json.RawMessage) (interface{}, error) {
	ctx := r.Context()
	switch req.Action {
	case "addBean":
		var body models.CreateBeanRequest
		if err := unmarshalBody(raw, &body); err != nil {
			return nil, err
		}
		bean, err := h.journal.CreateBean(ctx, &body)
		if err != nil {
			return nil, err
		}
		return map[string]string{"id": bean.ID}, nil

	case "addBrew":
		var body models.CreateBrewRequest
		if err := unmarshalBody(raw, &body); err != nil {
			return nil, err
		}
		brew, err := h.journal.LogBrew(ctx, &body)
		if err != nil {
			return nil, err
		}
		return map[string]string{"status": "Logged", "id": brew.ID}, nil

	case "addCafe":
		var body models.CreateCafeLogRequest
		if err := unmarshalBody(raw, &body); err != nil {
			return nil, err
		}
		entry, err := h.journal.CreateCafeLog(ctx, &body)
		if err != nil {
			return nil, err
		}
		return map[string]string{"status": "Logged", "id": entry.ID}, nil

	case "addPreset":
		var body models.CreatePresetRequest
		if err := unmarshalBody(raw, &body); err != nil {
			return nil, err
		}
		preset, err := h.journal.CreatePreset(ctx, &body)
		if err != nil {
			return nil, err
		}
		return map[string]string{"id": preset.ID}, nil

	case "updateBeanStatus":
		bean, err := h.journal.SetBeanStatus(ctx, req.ID, req.Status)
		if err != nil {
			return nil, err
		}
		return bean, nil

	case "deletePreset":
		// Sheet presets had no ids, so the recipe name also identifies one.
		ref := strings.TrimSpace(req.ID)
		if ref == "" {
			ref = req.RecipeName
		}
		preset, err := h.journal.FindPreset(ctx, ref)
		if err != nil {
			return nil, err
		}
		if err := h.journal.DeletePreset(ctx, preset.ID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "Deleted", "id": preset.ID}, nil

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownAction, req.Action)
	}
}

func unmarshalBody(raw json.RawMessage, target interface{}) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
