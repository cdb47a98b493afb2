// Package domain contains the base station model.
package domain

import (
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
)

// BaseStation is a GNSS reference station imported from a KMZ/KML catalog.
// LatKey and LonKey are the coordinates rounded to 6 decimal places; they
// carry the dedupe identity of a station.
type BaseStation struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index;uniqueIndex:ux_basestations_org_coords,priority:1" json:"org_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Lat         float64      `json:"lat"`
	Lon         float64      `json:"lon"`
	LatKey      float64      `gorm:"not null;uniqueIndex:ux_basestations_org_coords,priority:2" json:"-"`
	LonKey      float64      `gorm:"not null;uniqueIndex:ux_basestations_org_coords,priority:3" json:"-"`
	Altitude    *float64     `json:"altitude,omitempty"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BaseStation) TableName() string { return "base_stations" }

// RoundCoord rounds a coordinate to 6 decimal places, roughly 11 cm at the
// equator.
func RoundCoord(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
