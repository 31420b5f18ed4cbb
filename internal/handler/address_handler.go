// internal/handler/address_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/service"
)

// AddressHandler holds the dependencies for address-related HTTP handlers
type AddressHandler struct {
	Service *service.AddressService
}

func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Service.ListAddresses()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": addresses})
}

func (h *AddressHandler) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid address id", http.StatusBadRequest)
		return
	}

	addr, err := h.Service.GetAddress(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": addr})
}

func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var payload model.EmailAddress
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Service.CreateAddress(&payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": payload})
}

func (h *AddressHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid address id", http.StatusBadRequest)
		return
	}

	var payload model.EmailAddress
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	payload.ID = id

	if err := h.Service.UpdateAddress(&payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": payload})
}

func (h *AddressHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid address id", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteAddress(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h *AddressHandler) SearchAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Service.SearchAddresses(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": addresses})
}

func (h *AddressHandler) GetAddressStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetAddressStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": stats})
}
