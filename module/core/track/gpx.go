package track

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/nandanugg/walkarea/module/core/domain"
)

type gpxFile struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
	HDOP float64 `xml:"hdop"`
	Time string  `xml:"time"`
}

// ParseGPX flattens all tracks and segments into one ordered list. HDOP, when
// present, is carried as the accuracy.
func ParseGPX(r io.Reader) ([]domain.Location, error) {
	var gpx gpxFile
	if err := xml.NewDecoder(r).Decode(&gpx); err != nil {
		return nil, fmt.Errorf("decode gpx: %w", err)
	}

	var locs []domain.Location
	for _, trk := range gpx.Tracks {
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				loc := domain.Location{Lat: pt.Lat, Lon: pt.Lon, Accuracy: pt.HDOP}
				if pt.Time != "" {
					ts, err := time.Parse(time.RFC3339, pt.Time)
					if err != nil {
						return nil, fmt.Errorf("gpx point time %q: %w", pt.Time, err)
					}
					loc.Timestamp = ts
				}
				locs = append(locs, loc)
			}
		}
	}

	if len(locs) == 0 {
		return nil, ErrNoTrackData
	}
	return locs, nil
}
