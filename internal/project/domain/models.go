// Package domain contains the project model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Project is an org-scoped registry of work sites.
type Project struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID `gorm:"not null;index" json:"org_id"`
	Name           string       `gorm:"type:text;not null" json:"name"`
	Description    string       `gorm:"type:text" json:"description,omitempty"`
	Status         string       `gorm:"type:text;not null" json:"status"`
	CreatedByEmail string       `gorm:"type:text;not null" json:"created_by_email"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// ValidStatus reports whether s is one of the closed status set.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusArchived
}
