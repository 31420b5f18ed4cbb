// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Request errors: the mailing request itself is unsatisfiable. Surfaced
// before any log entry is written or any transport call is made.
var (
	ErrNoRecipients       = errors.New("no addresses selected for mailing")
	ErrMissingContent     = errors.New("either template_id or custom subject and content must be provided")
	ErrConflictingContent = errors.New("template_id and custom subject/content are mutually exclusive")
	ErrNoValidRecipients  = errors.New("no valid addresses found")
)

// ErrTemplateNotFound is a sentinel error
type ErrTemplateNotFound struct {
	TemplateID int
}

func (e *ErrTemplateNotFound) Error() string {
	return fmt.Sprintf("template with ID %d not found", e.TemplateID)
}

// Helper constructor
func NewTemplateNotFound(id int) error {
	return &ErrTemplateNotFound{TemplateID: id}
}

type ErrAddressNotFound struct {
	AddressID int
}

func (e *ErrAddressNotFound) Error() string {
	return fmt.Sprintf("email address with ID %d not found", e.AddressID)
}

func NewAddressNotFound(id int) error {
	return &ErrAddressNotFound{AddressID: id}
}

// ErrInvalidStatus rejects log queries for statuses outside pending/sent/failed.
type ErrInvalidStatus struct {
	Status string
}

func (e *ErrInvalidStatus) Error() string {
	return fmt.Sprintf("invalid status %q: must be one of pending, sent, failed", e.Status)
}

func NewInvalidStatus(status string) error {
	return &ErrInvalidStatus{Status: status}
}

// ErrValidation carries a field-level validation message for CRUD input.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

func NewValidation(format string, args ...any) error {
	return &ErrValidation{Message: fmt.Sprintf(format, args...)}
}

// IsRequestError reports whether err should map to a 4xx response rather
// than a server failure.
func IsRequestError(err error) bool {
	if errors.Is(err, ErrNoRecipients) ||
		errors.Is(err, ErrMissingContent) ||
		errors.Is(err, ErrConflictingContent) ||
		errors.Is(err, ErrNoValidRecipients) {
		return true
	}
	var (
		invalidStatus *ErrInvalidStatus
		validation    *ErrValidation
	)
	return errors.As(err, &invalidStatus) || errors.As(err, &validation)
}

// IsNotFound reports whether err is a missing-entity error.
func IsNotFound(err error) bool {
	var (
		template *ErrTemplateNotFound
		address  *ErrAddressNotFound
	)
	return errors.As(err, &template) || errors.As(err, &address)
}
