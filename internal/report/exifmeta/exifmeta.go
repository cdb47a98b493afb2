// Package exifmeta reads the photo metadata the report pipeline cares
// about. Photos without EXIF are common in the field, so every field is
// optional and a decode failure is not an error.
package exifmeta

import (
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Meta holds the extracted fields; nil means the tag was absent or
// unreadable.
type Meta struct {
	Lat     *float64
	Lon     *float64
	TakenAt *time.Time
}

// Extract reads EXIF from a JPEG stream. It never fails: a photo with no
// EXIF block yields a zero Meta.
func Extract(r io.Reader) Meta {
	var m Meta

	x, err := exif.Decode(r)
	if err != nil {
		return m
	}

	if lat, lon, err := x.LatLong(); err == nil {
		m.Lat = &lat
		m.Lon = &lon
	}
	if tm, err := x.DateTime(); err == nil {
		utc := tm.UTC()
		m.TakenAt = &utc
	}
	return m
}
