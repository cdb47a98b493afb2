// Package domain contains persistence models for the notification gateway.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Notification is a persisted message addressed to one member.
type Notification struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID `gorm:"not null;index" json:"org_id"`
	RecipientEmail string       `gorm:"type:text;not null;index" json:"recipient_email"`
	Kind           string       `gorm:"type:text;not null" json:"kind"`
	Title          string       `gorm:"type:text;not null" json:"title"`
	Body           string       `gorm:"type:text" json:"body"`
	Read           bool         `gorm:"not null;default:false" json:"read"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }

const (
	KindMemberInvited = "member.invited"
	KindMemberJoined  = "member.joined"
	KindTaskAssigned  = "task.assigned"
	KindReportCreated = "report.created"
)
