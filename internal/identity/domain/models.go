// Package domain contains persistence models for the identity bridge.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is the local record for an identity issued by the external auth provider.
type User struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	ExternalID string       `gorm:"type:text;not null;uniqueIndex:ux_users_external_id" json:"external_id"`
	Email      string       `gorm:"type:text;not null;uniqueIndex:ux_users_email" json:"email"`
	Name       string       `gorm:"type:text" json:"name"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
