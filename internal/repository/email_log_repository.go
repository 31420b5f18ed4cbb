package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// EmailLogRepositoryInterface defines the delivery-log store used by the
// mailing dispatcher and the log query endpoints. Each entry is created
// once in pending state and updated exactly once to a terminal status.
type EmailLogRepositoryInterface interface {
	Create(entry *model.EmailLog) error
	UpdateStatus(id int, status, errorMessage string) error
	List(limit, offset int) ([]model.EmailLogDetail, int, error)
	ListByStatus(status string, limit, offset int) ([]model.EmailLogDetail, int, error)
	Stats() (map[string]int, error)
	DeleteOlderThan(cutoff time.Time) (int, error)
}

type EmailLogRepository struct {
	DB *sql.DB
}

// Create inserts a new log entry and fills in its generated fields
func (r *EmailLogRepository) Create(entry *model.EmailLog) error {
	if entry.Status == "" {
		entry.Status = model.StatusPending
	}
	query := `
        INSERT INTO email_logs (email_address_id, template_id, subject, content, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, created_at, updated_at
    `
	return r.DB.QueryRow(
		query,
		entry.EmailAddressID,
		entry.TemplateID,
		entry.Subject,
		entry.Content,
		entry.Status,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

// UpdateStatus moves an entry to its terminal status. sent_at is stamped
// only on the transition to sent; error_message only on failed.
func (r *EmailLogRepository) UpdateStatus(id int, status, errorMessage string) error {
	var query string
	var args []any
	switch status {
	case model.StatusSent:
		query = `UPDATE email_logs SET status=$1, sent_at=NOW(), updated_at=NOW() WHERE id=$2`
		args = []any{status, id}
	case model.StatusFailed:
		query = `UPDATE email_logs SET status=$1, error_message=$2, updated_at=NOW() WHERE id=$3`
		args = []any{status, nullIfEmpty(errorMessage), id}
	default:
		query = `UPDATE email_logs SET status=$1, updated_at=NOW() WHERE id=$2`
		args = []any{status, id}
	}

	res, err := r.DB.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const logDetailQuery = `
    SELECT l.id, l.email_address_id, l.template_id, l.subject, l.content,
           l.status, l.error_message, l.sent_at, l.created_at, l.updated_at,
           a.email, a.last_name, a.first_name, COALESCE(t.name, '')
    FROM email_logs l
    JOIN email_addresses a ON a.id = l.email_address_id
    LEFT JOIN message_templates t ON t.id = l.template_id
`

func (r *EmailLogRepository) queryDetails(where string, args ...any) ([]model.EmailLogDetail, error) {
	rows, err := r.DB.Query(logDetailQuery+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.EmailLogDetail{}
	for rows.Next() {
		var d model.EmailLogDetail
		var errMsg sql.NullString
		var lastName, firstName string
		if err := rows.Scan(
			&d.ID, &d.EmailAddressID, &d.TemplateID, &d.Subject, &d.Content,
			&d.Status, &errMsg, &d.SentAt, &d.CreatedAt, &d.UpdatedAt,
			&d.RecipientEmail, &lastName, &firstName, &d.TemplateName,
		); err != nil {
			return nil, err
		}
		d.ErrorMessage = errMsg.String
		d.RecipientName = lastName + " " + firstName
		logs = append(logs, d)
	}
	return logs, rows.Err()
}

// List fetches log entries newest-first with recipient and template info
func (r *EmailLogRepository) List(limit, offset int) ([]model.EmailLogDetail, int, error) {
	logs, err := r.queryDetails(` ORDER BY l.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM email_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// ListByStatus fetches log entries for one status, newest-first
func (r *EmailLogRepository) ListByStatus(status string, limit, offset int) ([]model.EmailLogDetail, int, error) {
	logs, err := r.queryDetails(` WHERE l.status = $1 ORDER BY l.created_at DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM email_logs WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Stats returns the total entry count plus one count per status.
// Statuses with no entries still appear with count 0.
func (r *EmailLogRepository) Stats() (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM email_logs GROUP BY status`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{
		"total":   0,
		"pending": 0,
		"sent":    0,
		"failed":  0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		if _, ok := stats[status]; ok {
			stats[status] = count
		}
		stats["total"] += count
	}
	return stats, rows.Err()
}

// DeleteOlderThan hard-deletes entries created before cutoff and returns
// the number of deleted rows
func (r *EmailLogRepository) DeleteOlderThan(cutoff time.Time) (int, error) {
	res, err := r.DB.Exec(`DELETE FROM email_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

var _ EmailLogRepositoryInterface = (*EmailLogRepository)(nil)
