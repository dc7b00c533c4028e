package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sentinel-labs/sentinel-core/internal/device"
)

// addDeviceRequest is the request body for POST /api/add.
type addDeviceRequest struct {
	ID       string `json:"id"`
	Location string `json:"location"`
}

// handleListDevices returns the current state of every registered device.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.devices.List(r.Context())
	if err != nil {
		s.logger.Error("listing devices", "error", err)
		writeInternalError(w, "listing devices")
		return
	}

	alarming := 0
	for i := range devices {
		if devices[i].Alarming() {
			alarming++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"devices":  devices,
		"count":    len(devices),
		"alarming": alarming,
	})
}

// handleAddDevice registers a new device with default state.
func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	var req addDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	d, err := s.devices.Create(r.Context(), req.ID, req.Location)
	if err != nil {
		switch {
		case errors.Is(err, device.ErrInvalidDevice):
			writeBadRequest(w, "id and location are required")
		case errors.Is(err, device.ErrDeviceExists):
			writeConflict(w, "device already exists")
		default:
			s.logger.Error("adding device", "device_id", req.ID, "error", err)
			writeInternalError(w, "adding device")
		}
		return
	}

	s.logger.Info("device registered", "device_id", d.ID, "location", d.Location)

	writeJSON(w, http.StatusCreated, map[string]any{
		"detail": "device added",
		"device": d,
	})
}

// handleResolveAlarm clears a device's alarm flag back to normal.
func (s *Server) handleResolveAlarm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "device_id")

	if err := s.devices.ResolveAlarm(r.Context(), id); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("resolving alarm", "device_id", id, "error", err)
		writeInternalError(w, "resolving alarm")
		return
	}

	d, err := s.devices.GetByID(r.Context(), id)
	if err != nil {
		s.logger.Error("reading device after resolve", "device_id", id, "error", err)
		writeInternalError(w, "resolving alarm")
		return
	}

	s.logger.Info("alarm resolved", "device_id", id)

	writeJSON(w, http.StatusOK, map[string]any{
		"detail": "alarm resolved",
		"device": d,
	})
}

// handleDeleteDevice removes a device. Its ledger events are kept.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "device_id")

	if err := s.devices.Delete(r.Context(), id); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("deleting device", "device_id", id, "error", err)
		writeInternalError(w, "deleting device")
		return
	}

	retained, err := s.ledger.CountForDevice(r.Context(), id)
	if err != nil {
		s.logger.Error("counting retained events", "device_id", id, "error", err)
		retained = 0
	}

	s.logger.Info("device deleted", "device_id", id, "events_retained", retained)

	writeJSON(w, http.StatusOK, map[string]any{
		"detail":          "device deleted",
		"events_retained": retained,
	})
}
