// internal/model/email_log.go
package model

import "time"

// Delivery log statuses. A log entry is created as pending and moves
// exactly once to sent or failed.
const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

type EmailLog struct {
	ID             int        `db:"id" json:"id"`
	EmailAddressID int        `db:"email_address_id" json:"email_address_id"`
	TemplateID     *int       `db:"template_id" json:"template_id,omitempty"` // nil for custom content
	Subject        string     `db:"subject" json:"subject"`
	Content        string     `db:"content" json:"content"` // rendered, recipient-specific text
	Status         string     `db:"status" json:"status"`   // pending, sent, failed
	ErrorMessage   string     `db:"error_message,omitempty" json:"error_message,omitempty"`
	SentAt         *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// EmailLogDetail is an EmailLog joined with recipient and template info
// for the log listing endpoints.
type EmailLogDetail struct {
	EmailLog
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	TemplateName   string `json:"template_name,omitempty"`
}

// ValidStatus reports whether s is one of the known log statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusSent, StatusFailed:
		return true
	}
	return false
}
