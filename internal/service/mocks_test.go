package service_test

import (
	"fmt"
	"time"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// --- Mock address repository ---

// MockAddressRepo keeps addresses in a slice; slice order stands in for
// the repository's (last_name, first_name) resolution order.
type MockAddressRepo struct {
	Addresses   []model.EmailAddress
	EmailsTaken map[string]bool
	Created     []model.EmailAddress
	Updated     []model.EmailAddress
	DeletedIDs  []int
}

func (m *MockAddressRepo) List() ([]model.EmailAddress, error) {
	return m.Addresses, nil
}

func (m *MockAddressRepo) GetByID(id int) (*model.EmailAddress, error) {
	for i := range m.Addresses {
		if m.Addresses[i].ID == id {
			a := m.Addresses[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (m *MockAddressRepo) FindByIDs(ids []int) ([]model.EmailAddress, error) {
	wanted := map[int]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	matched := []model.EmailAddress{}
	for _, a := range m.Addresses {
		if wanted[a.ID] {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (m *MockAddressRepo) Create(a *model.EmailAddress) error {
	a.ID = len(m.Created) + 1000
	m.Created = append(m.Created, *a)
	return nil
}

func (m *MockAddressRepo) Update(a *model.EmailAddress) error {
	m.Updated = append(m.Updated, *a)
	return nil
}

func (m *MockAddressRepo) Delete(id int) error {
	m.DeletedIDs = append(m.DeletedIDs, id)
	return nil
}

func (m *MockAddressRepo) Search(query string) ([]model.EmailAddress, error) {
	return m.Addresses, nil
}

func (m *MockAddressRepo) Count() (int, error) {
	return len(m.Addresses), nil
}

func (m *MockAddressRepo) EmailExists(email string, excludeID int) (bool, error) {
	return m.EmailsTaken[email], nil
}

// --- Mock template repository ---

type MockTemplateRepo struct {
	Templates []model.MessageTemplate
}

func (m *MockTemplateRepo) List() ([]model.MessageTemplate, error) {
	return m.Templates, nil
}

func (m *MockTemplateRepo) GetByID(id int) (*model.MessageTemplate, error) {
	for i := range m.Templates {
		if m.Templates[i].ID == id {
			t := m.Templates[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (m *MockTemplateRepo) Create(t *model.MessageTemplate) error {
	t.ID = len(m.Templates) + 1
	m.Templates = append(m.Templates, *t)
	return nil
}

func (m *MockTemplateRepo) Update(t *model.MessageTemplate) error { return nil }
func (m *MockTemplateRepo) Delete(id int) error                   { return nil }

func (m *MockTemplateRepo) SearchByName(query string) ([]model.MessageTemplate, error) {
	return m.Templates, nil
}

func (m *MockTemplateRepo) Count() (int, error) {
	return len(m.Templates), nil
}

// --- Mock delivery log store ---

type MockLogRepo struct {
	Entries    []*model.EmailLog
	nextID     int
	FailCreate bool
	Queried    bool // set when a list query actually runs
}

func (m *MockLogRepo) Create(entry *model.EmailLog) error {
	if m.FailCreate {
		return fmt.Errorf("log store unavailable")
	}
	m.nextID++
	entry.ID = m.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	copied := *entry
	m.Entries = append(m.Entries, &copied)
	return nil
}

func (m *MockLogRepo) UpdateStatus(id int, status, errorMessage string) error {
	for _, e := range m.Entries {
		if e.ID == id {
			e.Status = status
			e.ErrorMessage = errorMessage
			if status == model.StatusSent {
				now := time.Now()
				e.SentAt = &now
			}
			return nil
		}
	}
	return fmt.Errorf("no log entry with id %d", id)
}

func (m *MockLogRepo) List(limit, offset int) ([]model.EmailLogDetail, int, error) {
	m.Queried = true
	return []model.EmailLogDetail{}, len(m.Entries), nil
}

func (m *MockLogRepo) ListByStatus(status string, limit, offset int) ([]model.EmailLogDetail, int, error) {
	m.Queried = true
	details := []model.EmailLogDetail{}
	for _, e := range m.Entries {
		if e.Status == status {
			details = append(details, model.EmailLogDetail{EmailLog: *e})
		}
	}
	return details, len(details), nil
}

func (m *MockLogRepo) Stats() (map[string]int, error) {
	stats := map[string]int{"total": 0, "pending": 0, "sent": 0, "failed": 0}
	for _, e := range m.Entries {
		stats[e.Status]++
		stats["total"]++
	}
	return stats, nil
}

func (m *MockLogRepo) DeleteOlderThan(cutoff time.Time) (int, error) {
	kept := []*model.EmailLog{}
	deleted := 0
	for _, e := range m.Entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
		} else {
			kept = append(kept, e)
		}
	}
	m.Entries = kept
	return deleted, nil
}

// --- Mock mailer ---

// MockMailer succeeds unless the recipient appears in FailFor.
type MockMailer struct {
	FailFor map[string]string // email -> error text
	Sent    []string          // recipients in send order
}

func (m *MockMailer) Send(to, subject, htmlBody string) (string, error) {
	if msg, ok := m.FailFor[to]; ok {
		return "", fmt.Errorf("%s", msg)
	}
	m.Sent = append(m.Sent, to)
	return "msg-" + to, nil
}
