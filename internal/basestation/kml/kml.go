// Package kml parses the subset of KML/KMZ the station importer needs:
// Placemark names, descriptions and Point coordinates.
package kml

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

var (
	ErrNotKML   = errors.New("not a kml document")
	ErrNoKMZDoc = errors.New("kmz archive carries no kml entry")
)

// Placemark is one parsed station candidate.
type Placemark struct {
	Name        string
	Description string
	Lat         float64
	Lon         float64
	Altitude    *float64
}

type document struct {
	XMLName  xml.Name `xml:"kml"`
	Document node     `xml:"Document"`
	// Some exporters put placemarks straight under <kml>.
	Folders    []node      `xml:"Folder"`
	Placemarks []placemark `xml:"Placemark"`
}

type node struct {
	Folders    []node      `xml:"Folder"`
	Placemarks []placemark `xml:"Placemark"`
}

type placemark struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Point       struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
}

// Parse reads either a KMZ archive or a bare KML document. KMZ is a zip
// whose first .kml entry (conventionally doc.kml) is the document.
func Parse(src io.ReaderAt, size int64) ([]Placemark, error) {
	var magic [4]byte
	if _, err := src.ReadAt(magic[:], 0); err != nil {
		return nil, ErrNotKML
	}
	if string(magic[:]) == "PK\x03\x04" {
		return parseKMZ(src, size)
	}
	return parseKML(io.NewSectionReader(src, 0, size))
}

func parseKMZ(src io.ReaderAt, size int64) ([]Placemark, error) {
	zr, err := zip.NewReader(src, size)
	if err != nil {
		return nil, ErrNotKML
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".kml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		marks, err := parseKML(rc)
		rc.Close()
		return marks, err
	}
	return nil, ErrNoKMZDoc
}

func parseKML(r io.Reader) ([]Placemark, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, ErrNotKML
	}

	var out []Placemark
	collect := func(marks []placemark) {
		for _, m := range marks {
			pm, ok := parsePlacemark(m)
			if !ok {
				continue
			}
			out = append(out, pm)
		}
	}

	var walk func(n node)
	walk = func(n node) {
		collect(n.Placemarks)
		for _, f := range n.Folders {
			walk(f)
		}
	}

	collect(doc.Placemarks)
	for _, f := range doc.Folders {
		walk(f)
	}
	walk(doc.Document)
	return out, nil
}

// parsePlacemark reads one <coordinates> tuple, "lon,lat[,alt]". Placemarks
// without a point are not stations and are dropped.
func parsePlacemark(m placemark) (Placemark, bool) {
	fields := strings.Fields(strings.TrimSpace(m.Point.Coordinates))
	if len(fields) == 0 {
		return Placemark{}, false
	}
	parts := strings.Split(fields[0], ",")
	if len(parts) < 2 {
		return Placemark{}, false
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Placemark{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Placemark{}, false
	}

	pm := Placemark{
		Name:        strings.TrimSpace(m.Name),
		Description: strings.TrimSpace(m.Description),
		Lat:         lat,
		Lon:         lon,
	}
	if len(parts) >= 3 {
		if alt, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64); err == nil {
			pm.Altitude = &alt
		}
	}
	return pm, true
}
