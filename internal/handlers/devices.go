package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/otcheredev/membership-data-plane/internal/middleware"
	"github.com/otcheredev/membership-data-plane/internal/models"
	"github.com/otcheredev/membership-data-plane/internal/store"
)

// DeviceHandler stores device registrations as opaque documents. Devices carry
// no service-level invariants; this is a tenant-scoped passthrough.
type DeviceHandler struct {
	store store.Client
}

func NewDeviceHandler(st store.Client) *DeviceHandler {
	return &DeviceHandler{store: st}
}

func (h *DeviceHandler) scope(w http.ResponseWriter, r *http.Request) (businessID, deviceID string, fields map[string]interface{}, ok bool) {
	businessID, ok = middleware.GetBusinessID(r.Context())
	if !ok {
		http.Error(w, "Business ID not found", http.StatusBadRequest)
		return "", "", nil, false
	}
	deviceID = chi.URLParam(r, "deviceID")
	if deviceID == "" {
		http.Error(w, "Device ID is required", http.StatusBadRequest)
		return "", "", nil, false
	}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return "", "", nil, false
	}
	return businessID, deviceID, fields, true
}

// Register creates or overwrites a device document
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	businessID, deviceID, fields, ok := h.scope(w, r)
	if !ok {
		return
	}

	fields[models.FieldCreatedAt] = store.ServerTimestamp
	if err := h.store.Set(r.Context(), models.DevicePath(businessID, deviceID), fields); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// Update patches an existing device document
func (h *DeviceHandler) Update(w http.ResponseWriter, r *http.Request) {
	businessID, deviceID, fields, ok := h.scope(w, r)
	if !ok {
		return
	}

	fields[models.FieldUpdatedAt] = store.ServerTimestamp
	if err := h.store.Update(r.Context(), models.DevicePath(businessID, deviceID), fields); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
