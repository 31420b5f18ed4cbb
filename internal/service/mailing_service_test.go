package service_test

import (
	"errors"
	"testing"
	"time"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/service"
)

func newMailingService() (*service.MailingService, *MockAddressRepo, *MockTemplateRepo, *MockLogRepo, *MockMailer) {
	addressRepo := &MockAddressRepo{
		Addresses: []model.EmailAddress{
			{ID: 1, LastName: "Ivanova", FirstName: "Maria", Email: "maria@example.com"},
			{ID: 2, LastName: "Lee", FirstName: "Ann", Email: "ann@example.com"},
			{ID: 3, LastName: "Smith", FirstName: "Alice", Email: "alice@example.com"},
		},
	}
	templateRepo := &MockTemplateRepo{
		Templates: []model.MessageTemplate{
			{ID: 7, Name: "Welcome", Subject: "Hi {{first_name}}", Content: "<p>Dear {{full_name}}</p>"},
		},
	}
	logRepo := &MockLogRepo{}
	m := &MockMailer{}

	svc := &service.MailingService{
		AddressRepo:  addressRepo,
		TemplateRepo: templateRepo,
		LogRepo:      logRepo,
		Mailer:       m,
	}
	return svc, addressRepo, templateRepo, logRepo, m
}

func intPtr(i int) *int { return &i }

func TestSendMailingFailureIsolation(t *testing.T) {
	svc, _, _, logRepo, m := newMailingService()
	m.FailFor = map[string]string{"ann@example.com": "mailbox full"}

	result, err := svc.SendMailing(&service.MailingRequest{
		CustomSubject:     "Hello",
		CustomContent:     "<p>Hello</p>",
		SelectedAddresses: []int{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TotalAddresses != 3 || result.Sent != 2 || result.Failed != 1 {
		t.Errorf("expected total=3 sent=2 failed=1, got total=%d sent=%d failed=%d",
			result.TotalAddresses, result.Sent, result.Failed)
	}
	if result.Sent+result.Failed != result.TotalAddresses {
		t.Errorf("sent+failed != total_addresses")
	}

	// outcomes keep resolution order, and only the middle recipient failed
	statuses := []string{}
	for _, r := range result.Results {
		statuses = append(statuses, r.Status)
	}
	if len(statuses) != 3 || statuses[0] != "sent" || statuses[1] != "failed" || statuses[2] != "sent" {
		t.Errorf("unexpected outcome statuses: %v", statuses)
	}
	if result.Results[1].Error != "mailbox full" {
		t.Errorf("expected transport error text, got %q", result.Results[1].Error)
	}
	if result.Results[0].MessageID == "" || result.Results[2].MessageID == "" {
		t.Errorf("sent outcomes must carry a message id")
	}

	// every log entry ended in a terminal status
	if len(logRepo.Entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(logRepo.Entries))
	}
	for _, e := range logRepo.Entries {
		if e.Status == model.StatusPending {
			t.Errorf("log entry %d still pending after run", e.ID)
		}
		if e.Status == model.StatusSent && e.SentAt == nil {
			t.Errorf("sent entry %d has no sent_at", e.ID)
		}
		if e.Status == model.StatusFailed && e.ErrorMessage == "" {
			t.Errorf("failed entry %d has no error message", e.ID)
		}
	}
}

func TestSendMailingAllFailuresStillCompletes(t *testing.T) {
	svc, _, _, _, m := newMailingService()
	m.FailFor = map[string]string{
		"maria@example.com": "rejected",
		"ann@example.com":   "rejected",
		"alice@example.com": "rejected",
	}

	result, err := svc.SendMailing(&service.MailingRequest{
		CustomSubject:     "Hello",
		CustomContent:     "<p>Hello</p>",
		SelectedAddresses: []int{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("run-level success means ran to completion, got error: %v", err)
	}
	if result.Sent != 0 || result.Failed != 3 {
		t.Errorf("expected sent=0 failed=3, got sent=%d failed=%d", result.Sent, result.Failed)
	}
}

func TestSendMailingNoRecipients(t *testing.T) {
	svc, _, _, logRepo, _ := newMailingService()

	_, err := svc.SendMailing(&service.MailingRequest{
		CustomSubject: "Hello",
		CustomContent: "<p>Hello</p>",
	})
	if !errors.Is(err, appErrors.ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
	if len(logRepo.Entries) != 0 {
		t.Errorf("request error must not create log entries")
	}
}

func TestSendMailingMissingContent(t *testing.T) {
	svc, _, _, logRepo, m := newMailingService()

	// subject without content is not a valid custom pair
	_, err := svc.SendMailing(&service.MailingRequest{
		CustomSubject:     "Hello",
		SelectedAddresses: []int{1},
	})
	if !errors.Is(err, appErrors.ErrMissingContent) {
		t.Fatalf("expected ErrMissingContent, got %v", err)
	}
	if len(logRepo.Entries) != 0 || len(m.Sent) != 0 {
		t.Errorf("request error must not touch log store or transport")
	}
}

func TestSendMailingRejectsBothContentSources(t *testing.T) {
	svc, _, _, logRepo, m := newMailingService()

	_, err := svc.SendMailing(&service.MailingRequest{
		TemplateID:        intPtr(7),
		CustomSubject:     "Hello",
		CustomContent:     "<p>Hello</p>",
		SelectedAddresses: []int{1, 2},
	})
	if !errors.Is(err, appErrors.ErrConflictingContent) {
		t.Fatalf("expected ErrConflictingContent, got %v", err)
	}
	if len(logRepo.Entries) != 0 || len(m.Sent) != 0 {
		t.Errorf("request error must not touch log store or transport")
	}
}

func TestSendMailingTemplateNotFound(t *testing.T) {
	svc, _, _, logRepo, _ := newMailingService()

	_, err := svc.SendMailing(&service.MailingRequest{
		TemplateID:        intPtr(99),
		SelectedAddresses: []int{1},
	})
	var notFound *appErrors.ErrTemplateNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if notFound.TemplateID != 99 {
		t.Errorf("expected template id 99 in error, got %d", notFound.TemplateID)
	}
	if len(logRepo.Entries) != 0 {
		t.Errorf("request error must not create log entries")
	}
}

func TestSendMailingNoValidRecipients(t *testing.T) {
	svc, _, _, _, _ := newMailingService()

	_, err := svc.SendMailing(&service.MailingRequest{
		CustomSubject:     "Hello",
		CustomContent:     "<p>Hello</p>",
		SelectedAddresses: []int{50, 51},
	})
	if !errors.Is(err, appErrors.ErrNoValidRecipients) {
		t.Fatalf("expected ErrNoValidRecipients, got %v", err)
	}
}

func TestSendMailingDropsUnmatchedIDsSilently(t *testing.T) {
	svc, _, _, _, _ := newMailingService()

	result, err := svc.SendMailing(&service.MailingRequest{
		CustomSubject:     "Hello",
		CustomContent:     "<p>Hello</p>",
		SelectedAddresses: []int{1, 3, 99},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// id 99 is dropped at resolution, not reported as a failed outcome
	if result.TotalAddresses != 2 || result.Failed != 0 {
		t.Errorf("expected total=2 failed=0, got total=%d failed=%d",
			result.TotalAddresses, result.Failed)
	}
}

func TestSendMailingRendersPerRecipient(t *testing.T) {
	svc, _, _, logRepo, _ := newMailingService()

	result, err := svc.SendMailing(&service.MailingRequest{
		TemplateID:        intPtr(7),
		SelectedAddresses: []int{2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent != 1 {
		t.Fatalf("expected 1 sent, got %d", result.Sent)
	}

	// the log entry carries the rendered text, never the raw template
	entry := logRepo.Entries[0]
	if entry.Subject != "Hi Ann" {
		t.Errorf("expected rendered subject %q, got %q", "Hi Ann", entry.Subject)
	}
	if entry.Content != "<p>Dear Lee Ann</p>" {
		t.Errorf("expected rendered content, got %q", entry.Content)
	}
	if entry.TemplateID == nil || *entry.TemplateID != 7 {
		t.Errorf("expected template_id 7 on log entry")
	}
	if result.Results[0].Name != "Lee Ann" {
		t.Errorf("expected outcome name %q, got %q", "Lee Ann", result.Results[0].Name)
	}
}

func TestSendMailingCustomContentHasNilTemplateID(t *testing.T) {
	svc, _, _, logRepo, _ := newMailingService()

	_, err := svc.SendMailing(&service.MailingRequest{
		CustomSubject:     "Hello {{first_name}}",
		CustomContent:     "<p>Hi</p>",
		SelectedAddresses: []int{1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logRepo.Entries[0].TemplateID != nil {
		t.Errorf("custom-content entry must have nil template_id")
	}
	if logRepo.Entries[0].Subject != "Hello Maria" {
		t.Errorf("expected rendered subject, got %q", logRepo.Entries[0].Subject)
	}
}

func TestSendMailingLogStoreFailureIsPerRecipient(t *testing.T) {
	svc, _, _, logRepo, m := newMailingService()
	logRepo.FailCreate = true

	result, err := svc.SendMailing(&service.MailingRequest{
		CustomSubject:     "Hello",
		CustomContent:     "<p>Hello</p>",
		SelectedAddresses: []int{1, 2},
	})
	if err != nil {
		t.Fatalf("per-recipient failure must not abort the run: %v", err)
	}
	if result.Failed != 2 || result.Sent != 0 {
		t.Errorf("expected all failed, got sent=%d failed=%d", result.Sent, result.Failed)
	}
	if len(m.Sent) != 0 {
		t.Errorf("no transport call should happen when the pending entry cannot be written")
	}
}

func TestGetLogsByStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _, logRepo, _ := newMailingService()

	_, err := svc.GetLogsByStatus("bounced", 100, 0)
	var invalid *appErrors.ErrInvalidStatus
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if logRepo.Queried {
		t.Errorf("no query must run for an invalid status")
	}
}

func TestGetLogsByStatusValid(t *testing.T) {
	svc, _, _, logRepo, _ := newMailingService()
	logRepo.Entries = []*model.EmailLog{
		{ID: 1, Status: model.StatusSent},
		{ID: 2, Status: model.StatusFailed},
	}

	page, err := svc.GetLogsByStatus("failed", 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || len(page.Logs) != 1 {
		t.Errorf("expected 1 failed entry, got total=%d", page.Total)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	svc, _, _, logRepo, _ := newMailingService()
	now := time.Now()
	logRepo.Entries = []*model.EmailLog{
		{ID: 1, Status: model.StatusSent, CreatedAt: now.AddDate(0, 0, -40)},
		{ID: 2, Status: model.StatusSent, CreatedAt: now.AddDate(0, 0, -10)},
		{ID: 3, Status: model.StatusFailed, CreatedAt: now.AddDate(0, 0, -5)},
	}

	deleted, err := svc.CleanupOldLogs(30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted entry, got %d", deleted)
	}
	if len(logRepo.Entries) != 2 {
		t.Errorf("expected 2 surviving entries, got %d", len(logRepo.Entries))
	}

	// running again with nothing new to delete is a no-op
	deleted, err = svc.CleanupOldLogs(30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("second cleanup should delete 0, got %d", deleted)
	}
}

func TestCleanupOldLogsDefaultsTo30Days(t *testing.T) {
	svc, _, _, logRepo, _ := newMailingService()
	now := time.Now()
	logRepo.Entries = []*model.EmailLog{
		{ID: 1, Status: model.StatusSent, CreatedAt: now.AddDate(0, 0, -31)},
		{ID: 2, Status: model.StatusSent, CreatedAt: now.AddDate(0, 0, -29)},
	}

	deleted, err := svc.CleanupOldLogs(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected the default 30-day cutoff to delete 1 entry, got %d", deleted)
	}
}

func TestGetMailingStatsZeroFill(t *testing.T) {
	svc, _, _, logRepo, _ := newMailingService()
	logRepo.Entries = []*model.EmailLog{
		{ID: 1, Status: model.StatusSent},
	}

	stats, err := svc.GetMailingStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats["total"] != 1 || stats["sent"] != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}
	if _, ok := stats["failed"]; !ok {
		t.Errorf("zero-count statuses must still appear")
	}
	if _, ok := stats["pending"]; !ok {
		t.Errorf("zero-count statuses must still appear")
	}
}
