// Package domain contains persistence models for the organization registry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization represents a tenant.
type Organization struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Name           string       `gorm:"type:text;not null" json:"name"`
	Slug           string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	OwnerEmail     string       `gorm:"type:text;not null" json:"owner_email"`
	CreatedByEmail string       `gorm:"type:text;not null" json:"created_by_email"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }
