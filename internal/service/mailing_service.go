// internal/service/mailing_service.go
package service

import (
	"log"
	"time"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/mailer"
	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/render"
	"github.com/unclebandit/mailblast-backend/internal/repository"
)

// DefaultCleanupDays is the retention window for delivery logs.
const DefaultCleanupDays = 30

// MailingService runs mailing batches: it resolves recipients and content,
// fans out one send attempt per recipient, and records a delivery log entry
// for each attempt.
type MailingService struct {
	AddressRepo  repository.EmailAddressRepositoryInterface
	TemplateRepo repository.MessageTemplateRepositoryInterface
	LogRepo      repository.EmailLogRepositoryInterface
	Mailer       mailer.Mailer
}

// MailingRequest selects recipients plus exactly one content source:
// a stored template or an inline custom subject/content pair.
type MailingRequest struct {
	TemplateID        *int   `json:"template_id,omitempty"`
	CustomSubject     string `json:"custom_subject,omitempty"`
	CustomContent     string `json:"custom_content,omitempty"`
	SelectedAddresses []int  `json:"selected_addresses"`
}

// RecipientOutcome is the per-recipient result of one mailing run.
// Status is always terminal: sent or failed.
type RecipientOutcome struct {
	AddressID int    `json:"address_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MailingResult aggregates a completed run. Sent + Failed == TotalAddresses.
type MailingResult struct {
	TotalAddresses int                `json:"total_addresses"`
	Sent           int                `json:"sent"`
	Failed         int                `json:"failed"`
	Results        []RecipientOutcome `json:"results"`
}

// LogPage is one page of delivery log entries.
type LogPage struct {
	Logs   []model.EmailLogDetail `json:"logs"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// Validate checks the static shape of a request: a non-empty recipient set
// and exactly one content source.
func (req *MailingRequest) Validate() error {
	if len(req.SelectedAddresses) == 0 {
		return appErrors.ErrNoRecipients
	}
	hasAnyCustom := req.CustomSubject != "" || req.CustomContent != ""
	hasFullCustom := req.CustomSubject != "" && req.CustomContent != ""
	if req.TemplateID != nil && hasAnyCustom {
		return appErrors.ErrConflictingContent
	}
	if req.TemplateID == nil && !hasFullCustom {
		return appErrors.ErrMissingContent
	}
	return nil
}

// SendMailing executes one mailing run. Request errors fail fast with no
// log entries written and no transport calls made. Once the per-recipient
// loop starts, each recipient is processed in isolation: a failure for one
// never aborts the rest. The returned counts always satisfy
// sent + failed == total_addresses.
func (s *MailingService) SendMailing(req *MailingRequest) (*MailingResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Resolve recipients once, before any send attempt. Unmatched ids are
	// dropped here, not reported as per-recipient failures.
	addresses, err := s.AddressRepo.FindByIDs(req.SelectedAddresses)
	if err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, appErrors.ErrNoValidRecipients
	}

	// Resolve content once. Template text is read at run start and never
	// re-fetched per recipient.
	var subject, content string
	if req.TemplateID != nil {
		template, err := s.TemplateRepo.GetByID(*req.TemplateID)
		if err != nil {
			return nil, err
		}
		if template == nil {
			return nil, appErrors.NewTemplateNotFound(*req.TemplateID)
		}
		subject = template.Subject
		content = template.Content
	} else {
		subject = req.CustomSubject
		content = req.CustomContent
	}

	result := &MailingResult{
		TotalAddresses: len(addresses),
		Results:        make([]RecipientOutcome, 0, len(addresses)),
	}

	for i := range addresses {
		outcome := s.deliverOne(&addresses[i], req.TemplateID, subject, content)
		if outcome.Status == model.StatusSent {
			result.Sent++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, outcome)
	}

	log.Printf("mailing run completed: total=%d sent=%d failed=%d",
		result.TotalAddresses, result.Sent, result.Failed)

	return result, nil
}

// deliverOne performs the full send attempt for a single recipient and
// never lets an error escape: any failure becomes a failed outcome. This
// is the isolation boundary between recipients.
func (s *MailingService) deliverOne(addr *model.EmailAddress, templateID *int, subject, content string) RecipientOutcome {
	outcome := RecipientOutcome{
		AddressID: addr.ID,
		Email:     addr.Email,
		Name:      render.FullName(addr),
	}

	personalizedSubject := render.Render(subject, addr)
	personalizedContent := render.Render(content, addr)

	entry := &model.EmailLog{
		EmailAddressID: addr.ID,
		TemplateID:     templateID,
		Subject:        personalizedSubject,
		Content:        personalizedContent,
		Status:         model.StatusPending,
	}
	if err := s.LogRepo.Create(entry); err != nil {
		log.Println("⚠️ failed to create log entry for", addr.Email, ":", err)
		outcome.Status = model.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	messageID, err := s.Mailer.Send(addr.Email, personalizedSubject, personalizedContent)
	if err != nil {
		if uerr := s.LogRepo.UpdateStatus(entry.ID, model.StatusFailed, err.Error()); uerr != nil {
			log.Println("⚠️ failed to mark log entry failed:", uerr)
		}
		outcome.Status = model.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	if err := s.LogRepo.UpdateStatus(entry.ID, model.StatusSent, ""); err != nil {
		log.Println("⚠️ failed to mark log entry sent:", err)
		outcome.Status = model.StatusFailed
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = model.StatusSent
	outcome.MessageID = messageID
	return outcome
}

// RenderPreview renders the request's content source against one stored
// address without sending anything.
func (s *MailingService) RenderPreview(req *MailingRequest, addressID int) (subject, content string, err error) {
	addr, err := s.AddressRepo.GetByID(addressID)
	if err != nil {
		return "", "", err
	}
	if addr == nil {
		return "", "", appErrors.NewAddressNotFound(addressID)
	}

	var rawSubject, rawContent string
	if req.TemplateID != nil {
		template, err := s.TemplateRepo.GetByID(*req.TemplateID)
		if err != nil {
			return "", "", err
		}
		if template == nil {
			return "", "", appErrors.NewTemplateNotFound(*req.TemplateID)
		}
		rawSubject = template.Subject
		rawContent = template.Content
	} else {
		if req.CustomSubject == "" || req.CustomContent == "" {
			return "", "", appErrors.ErrMissingContent
		}
		rawSubject = req.CustomSubject
		rawContent = req.CustomContent
	}

	return render.Render(rawSubject, addr), render.Render(rawContent, addr), nil
}

// GetAddressesForMailing lists all addresses in mailing-picker order
func (s *MailingService) GetAddressesForMailing() ([]model.EmailAddress, error) {
	return s.AddressRepo.List()
}

// GetTemplatesForMailing lists all templates ordered by name
func (s *MailingService) GetTemplatesForMailing() ([]model.MessageTemplate, error) {
	return s.TemplateRepo.List()
}

// GetMailingLogs fetches a page of delivery log entries, newest first
func (s *MailingService) GetMailingLogs(limit, offset int) (*LogPage, error) {
	limit, offset = clampPage(limit, offset)
	logs, total, err := s.LogRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	return &LogPage{Logs: logs, Total: total, Limit: limit, Offset: offset}, nil
}

// GetLogsByStatus fetches a page of entries for one status. Unknown
// statuses are rejected before any query runs.
func (s *MailingService) GetLogsByStatus(status string, limit, offset int) (*LogPage, error) {
	if !model.ValidStatus(status) {
		return nil, appErrors.NewInvalidStatus(status)
	}
	limit, offset = clampPage(limit, offset)
	logs, total, err := s.LogRepo.ListByStatus(status, limit, offset)
	if err != nil {
		return nil, err
	}
	return &LogPage{Logs: logs, Total: total, Limit: limit, Offset: offset}, nil
}

// GetMailingStats returns the total log count plus a count per status
func (s *MailingService) GetMailingStats() (map[string]int, error) {
	return s.LogRepo.Stats()
}

// CleanupOldLogs hard-deletes entries older than daysOld days (default 30)
// and returns the deleted row count.
func (s *MailingService) CleanupOldLogs(daysOld int) (int, error) {
	if daysOld <= 0 {
		daysOld = DefaultCleanupDays
	}
	cutoff := time.Now().AddDate(0, 0, -daysOld)
	deleted, err := s.LogRepo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, err
	}
	log.Printf("cleaned up %d log entries older than %d days", deleted, daysOld)
	return deleted, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
