// Package domain contains the photo report model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Report is one uploaded field photo with the metadata read out of it.
// Lat, Lon and TakenAt stay nil when the photo carries no usable EXIF.
type Report struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID  `gorm:"not null;index" json:"org_id"`
	ProjectID   *snowflake.ID `gorm:"index" json:"project_id,omitempty"`
	TaskID      *snowflake.ID `gorm:"index" json:"task_id,omitempty"`
	AuthorEmail string        `gorm:"type:text;not null;index" json:"author_email"`
	ObjectKey   string        `gorm:"type:text;not null" json:"object_key"`
	StampedKey  string        `gorm:"type:text;not null" json:"stamped_key"`
	Lat         *float64      `json:"lat,omitempty"`
	Lon         *float64      `json:"lon,omitempty"`
	TakenAt     *time.Time    `json:"taken_at,omitempty"`
	Caption     string        `gorm:"type:text" json:"caption,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Report) TableName() string { return "reports" }
