package repository

import (
	"database/sql"
	"time"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// MessageTemplateRepositoryInterface defines methods used by services
type MessageTemplateRepositoryInterface interface {
	List() ([]model.MessageTemplate, error)
	GetByID(id int) (*model.MessageTemplate, error)
	Create(t *model.MessageTemplate) error
	Update(t *model.MessageTemplate) error
	Delete(id int) error
	SearchByName(query string) ([]model.MessageTemplate, error)
	Count() (int, error)
}

type MessageTemplateRepository struct {
	DB *sql.DB
}

const templateColumns = `id, name, subject, content, created_at, updated_at`

// List fetches all templates ordered by name
func (r *MessageTemplateRepository) List() ([]model.MessageTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM message_templates ORDER BY name ASC`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []model.MessageTemplate{}
	for rows.Next() {
		var t model.MessageTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// GetByID fetches a template by ID, nil when not found
func (r *MessageTemplateRepository) GetByID(id int) (*model.MessageTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM message_templates WHERE id = $1`
	var t model.MessageTemplate
	err := r.DB.QueryRow(query, id).Scan(&t.ID, &t.Name, &t.Subject, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *MessageTemplateRepository) Create(t *model.MessageTemplate) error {
	t.CreatedAt = time.Now()
	query := `
        INSERT INTO message_templates (name, subject, content, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `
	return r.DB.QueryRow(query, t.Name, t.Subject, t.Content, t.CreatedAt).Scan(&t.ID)
}

func (r *MessageTemplateRepository) Update(t *model.MessageTemplate) error {
	query := `
        UPDATE message_templates
        SET name=$1, subject=$2, content=$3, updated_at=NOW()
        WHERE id=$4
    `
	res, err := r.DB.Exec(query, t.Name, t.Subject, t.Content, t.ID)
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

func (r *MessageTemplateRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM message_templates WHERE id=$1`, id)
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

func (r *MessageTemplateRepository) SearchByName(query string) ([]model.MessageTemplate, error) {
	sqlQuery := `SELECT ` + templateColumns + ` FROM message_templates WHERE name ILIKE $1 ORDER BY name ASC`
	rows, err := r.DB.Query(sqlQuery, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []model.MessageTemplate{}
	for rows.Next() {
		var t model.MessageTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *MessageTemplateRepository) Count() (int, error) {
	var total int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM message_templates`).Scan(&total)
	return total, err
}

var _ MessageTemplateRepositoryInterface = (*MessageTemplateRepository)(nil)
