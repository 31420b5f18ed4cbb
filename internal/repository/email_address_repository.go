package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/unclebandit/mailblast-backend/internal/model"
)

// EmailAddressRepositoryInterface defines methods used by services
type EmailAddressRepositoryInterface interface {
	List() ([]model.EmailAddress, error)
	GetByID(id int) (*model.EmailAddress, error)
	FindByIDs(ids []int) ([]model.EmailAddress, error)
	Create(a *model.EmailAddress) error
	Update(a *model.EmailAddress) error
	Delete(id int) error
	Search(query string) ([]model.EmailAddress, error)
	Count() (int, error)
	EmailExists(email string, excludeID int) (bool, error)
}

// EmailAddressRepository is the concrete implementation
type EmailAddressRepository struct {
	DB *sql.DB
}

const addressColumns = `id, last_name, first_name, middle_name, email, created_at, updated_at`

func scanAddress(row interface{ Scan(...any) error }) (*model.EmailAddress, error) {
	var a model.EmailAddress
	var middle sql.NullString
	if err := row.Scan(&a.ID, &a.LastName, &a.FirstName, &middle, &a.Email, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.MiddleName = middle.String
	return &a, nil
}

// List fetches all addresses ordered for the mailing picker
func (r *EmailAddressRepository) List() ([]model.EmailAddress, error) {
	query := `
        SELECT ` + addressColumns + `
        FROM email_addresses
        ORDER BY last_name ASC, first_name ASC
    `
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []model.EmailAddress{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, *a)
	}
	return addresses, rows.Err()
}

// GetByID fetches an address by ID, nil when not found
func (r *EmailAddressRepository) GetByID(id int) (*model.EmailAddress, error) {
	query := `SELECT ` + addressColumns + ` FROM email_addresses WHERE id = $1`
	a, err := scanAddress(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// FindByIDs fetches the addresses matching the given ids. IDs with no
// matching row are silently dropped; the result keeps the mailing picker
// order (last_name, first_name).
func (r *EmailAddressRepository) FindByIDs(ids []int) ([]model.EmailAddress, error) {
	query := `
        SELECT ` + addressColumns + `
        FROM email_addresses
        WHERE id = ANY($1)
        ORDER BY last_name ASC, first_name ASC
    `
	rows, err := r.DB.Query(query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []model.EmailAddress{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, *a)
	}
	return addresses, rows.Err()
}

func (r *EmailAddressRepository) Create(a *model.EmailAddress) error {
	a.CreatedAt = time.Now()
	query := `
        INSERT INTO email_addresses (last_name, first_name, middle_name, email, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	return r.DB.QueryRow(query, a.LastName, a.FirstName, nullIfEmpty(a.MiddleName), a.Email, a.CreatedAt).Scan(&a.ID)
}

func (r *EmailAddressRepository) Update(a *model.EmailAddress) error {
	query := `
        UPDATE email_addresses
        SET last_name=$1, first_name=$2, middle_name=$3, email=$4, updated_at=NOW()
        WHERE id=$5
    `
	res, err := r.DB.Exec(query, a.LastName, a.FirstName, nullIfEmpty(a.MiddleName), a.Email, a.ID)
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

func (r *EmailAddressRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM email_addresses WHERE id=$1`, id)
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

// Search matches a substring against names and email, case-insensitive
func (r *EmailAddressRepository) Search(query string) ([]model.EmailAddress, error) {
	sqlQuery := `
        SELECT ` + addressColumns + `
        FROM email_addresses
        WHERE last_name ILIKE $1 OR first_name ILIKE $1 OR middle_name ILIKE $1 OR email ILIKE $1
        ORDER BY last_name ASC, first_name ASC
    `
	rows, err := r.DB.Query(sqlQuery, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []model.EmailAddress{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, *a)
	}
	return addresses, rows.Err()
}

func (r *EmailAddressRepository) Count() (int, error) {
	var total int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM email_addresses`).Scan(&total)
	return total, err
}

// EmailExists checks whether another row already uses this email
func (r *EmailAddressRepository) EmailExists(email string, excludeID int) (bool, error) {
	var count int
	err := r.DB.QueryRow(`
        SELECT COUNT(*)
        FROM email_addresses
        WHERE LOWER(email) = LOWER($1) AND id <> $2`, email, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ EmailAddressRepositoryInterface = (*EmailAddressRepository)(nil)
