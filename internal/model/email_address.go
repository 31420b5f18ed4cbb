// internal/model/email_address.go
package model

import "time"

type EmailAddress struct {
	ID         int        `db:"id" json:"id"`
	LastName   string     `db:"last_name" json:"last_name"`
	FirstName  string     `db:"first_name" json:"first_name"`
	MiddleName string     `db:"middle_name" json:"middle_name,omitempty"`
	Email      string     `db:"email" json:"email"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
