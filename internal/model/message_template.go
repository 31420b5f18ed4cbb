// internal/model/message_template.go
package model

import "time"

type MessageTemplate struct {
	ID        int        `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Subject   string     `db:"subject" json:"subject"`
	Content   string     `db:"content" json:"content"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
