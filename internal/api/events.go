package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sentinel-labs/sentinel-core/internal/device"
)

// eventRequest is the request body for POST /api/event.
//
// Button and battery are optional: a bare {"id": "..."} payload is a
// minimal panic report and defaults to button pressed, full battery.
type eventRequest struct {
	ID      string `json:"id"`
	Button  *int   `json:"button"`
	Battery *int   `json:"battery"`
}

// handleRecordEvent ingests a device report.
func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.ID == "" {
		writeBadRequest(w, "device id is required")
		return
	}

	button := device.ButtonPressed
	if req.Button != nil {
		button = *req.Button
	}
	battery := device.DefaultBattery
	if req.Battery != nil {
		battery = *req.Battery
	}

	stamp, err := s.ledger.Record(r.Context(), req.ID, button, battery)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrDeviceNotFound):
			writeNotFound(w, "device not found")
		case errors.Is(err, device.ErrInvalidEvent):
			writeBadRequest(w, err.Error())
		default:
			s.logger.Error("recording event", "device_id", req.ID, "error", err)
			writeInternalError(w, "recording event")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"detail":    "event recorded",
		"timestamp": stamp.Format(time.RFC3339),
	})
}

// handleListEvents returns recent ledger entries, newest first.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeBadRequest(w, "limit must be an integer")
			return
		}
		limit = parsed
	}

	events, err := s.ledger.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing events", "error", err)
		writeInternalError(w, "listing events")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"count":  len(events),
	})
}

// handleCheckOffline runs the liveness sweep on demand.
func (s *Server) handleCheckOffline(w http.ResponseWriter, r *http.Request) {
	updated, err := s.monitor.Sweep(r.Context(), time.Now())
	if err != nil {
		s.logger.Error("running liveness sweep", "error", err)
		writeInternalError(w, "running liveness sweep")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"detail":  "offline check complete",
		"updated": updated,
	})
}
