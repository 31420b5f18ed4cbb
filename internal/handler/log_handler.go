// internal/handler/log_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/unclebandit/mailblast-backend/internal/service"
)

// LogHandler exposes the delivery-log query and retention surface
type LogHandler struct {
	Service *service.MailingService
}

func pageParams(r *http.Request) (limit, offset int) {
	limit = 100
	offset = 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

func (h *LogHandler) GetMailingLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	page, err := h.Service.GetMailingLogs(limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": page})
}

func (h *LogHandler) GetLogsByStatus(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")
	limit, offset := pageParams(r)

	page, err := h.Service.GetLogsByStatus(status, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": page})
}

func (h *LogHandler) GetMailingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetMailingStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": stats})
}

func (h *LogHandler) CleanupOldLogs(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}

	deleted, err := h.Service.CleanupOldLogs(days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted_count": deleted})
}
