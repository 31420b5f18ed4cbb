// internal/controller/mailing_controller.go
package controller

import (
	"encoding/json"
	"log"
	"net/http"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/queue"
	"github.com/unclebandit/mailblast-backend/internal/service"
)

type MailingController struct {
	MailingService *service.MailingService
	Queue          queue.Queue
}

// SendMailing runs a mailing synchronously and returns the aggregated
// result. A 200 means the run completed, not that every send succeeded;
// callers must inspect sent/failed.
func (c *MailingController) SendMailing(w http.ResponseWriter, r *http.Request) {
	var req service.MailingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	result, err := c.MailingService.SendMailing(&req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": result})
}

// SendMailingAsync validates the request shape and queues the run. The
// dispatch itself happens on the queue subscriber or in cmd/worker.
func (c *MailingController) SendMailingAsync(w http.ResponseWriter, r *http.Request) {
	var req service.MailingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	if err := c.Queue.Publish(queue.TopicMailingRuns, &req); err != nil {
		log.Println("⚠️ failed to enqueue mailing run:", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true})
}

// PersonalizedPreview renders a content source against one address
// without sending.
func (c *MailingController) PersonalizedPreview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AddressID     int    `json:"address_id"`
		TemplateID    *int   `json:"template_id,omitempty"`
		CustomSubject string `json:"custom_subject,omitempty"`
		CustomContent string `json:"custom_content,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	req := service.MailingRequest{
		TemplateID:    body.TemplateID,
		CustomSubject: body.CustomSubject,
		CustomContent: body.CustomContent,
	}
	subject, content, err := c.MailingService.RenderPreview(&req, body.AddressID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"address_id": body.AddressID,
		"subject":    subject,
		"content":    content,
	})
}

// GetAddressesForMailing lists recipients for the mailing picker
func (c *MailingController) GetAddressesForMailing(w http.ResponseWriter, r *http.Request) {
	addresses, err := c.MailingService.GetAddressesForMailing()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": addresses})
}

// GetTemplatesForMailing lists templates for the mailing picker
func (c *MailingController) GetTemplatesForMailing(w http.ResponseWriter, r *http.Request) {
	templates, err := c.MailingService.GetTemplatesForMailing()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": templates})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case appErrors.IsNotFound(err):
		status = http.StatusNotFound
	case appErrors.IsRequestError(err):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
