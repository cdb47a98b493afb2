// Package domain contains the task model and its status table.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Task is a unit of field work inside a project.
type Task struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID `gorm:"not null;index" json:"org_id"`
	ProjectID      snowflake.ID `gorm:"not null;index" json:"project_id"`
	Title          string       `gorm:"type:text;not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description,omitempty"`
	Status         string       `gorm:"type:text;not null" json:"status"`
	AssigneeEmail  *string      `gorm:"type:text;index" json:"assignee_email,omitempty"`
	DueAt          *time.Time   `json:"due_at,omitempty"`
	CreatedByEmail string       `gorm:"type:text;not null" json:"created_by_email"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Task) TableName() string { return "tasks" }

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether s is one of the closed status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}
