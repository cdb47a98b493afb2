// Package domain contains persistence models for org subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Subscription governs the seat and project allowances of one organization.
type Subscription struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID `gorm:"not null;uniqueIndex:ux_subscriptions_org" json:"org_id"`
	Plan           string       `gorm:"type:text;not null" json:"plan"`
	Status         string       `gorm:"type:text;not null" json:"status"`
	Seats          int          `gorm:"not null" json:"seats"`
	ProjectsLimit  int          `gorm:"not null" json:"projects_limit"`
	PeriodStart    *time.Time   `json:"period_start,omitempty"`
	PeriodEnd      *time.Time   `json:"period_end,omitempty"`
	Note           string       `gorm:"type:text" json:"note"`
	UpdatedByEmail string       `gorm:"type:text" json:"updated_by_email"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

const (
	StatusActive    = "active"
	StatusTrial     = "trial"
	StatusSuspended = "suspended"
	StatusPastDue   = "past_due"
	StatusInactive  = "inactive"
)

// ValidStatus reports whether s is a known subscription status.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusTrial, StatusSuspended, StatusPastDue, StatusInactive:
		return true
	default:
		return false
	}
}

// DefaultSeatLimit applies when an organization has no usable subscription.
const DefaultSeatLimit = 10

// DefaultProjectsLimit applies when an organization has no usable subscription.
const DefaultProjectsLimit = 10
