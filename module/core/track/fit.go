package track

import (
	"fmt"
	"io"

	"github.com/tormoder/fit"

	"github.com/nandanugg/walkarea/module/core/domain"
)

const fitInvalidAccuracy = 0xFF

// ParseFIT reads the record messages of a FIT activity. Records without a
// position fix are skipped.
func ParseFIT(r io.Reader) ([]domain.Location, error) {
	file, err := fit.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode fit: %w", err)
	}

	activity, err := file.Activity()
	if err != nil {
		return nil, fmt.Errorf("fit activity: %w", err)
	}

	locs := make([]domain.Location, 0, len(activity.Records))
	for _, rec := range activity.Records {
		if rec == nil || rec.PositionLat.Invalid() || rec.PositionLong.Invalid() {
			continue
		}
		loc := domain.Location{
			Lat:       rec.PositionLat.Degrees(),
			Lon:       rec.PositionLong.Degrees(),
			Timestamp: rec.Timestamp,
		}
		if rec.GpsAccuracy != fitInvalidAccuracy {
			loc.Accuracy = float64(rec.GpsAccuracy)
		}
		locs = append(locs, loc)
	}

	if len(locs) == 0 {
		return nil, ErrNoTrackData
	}
	return locs, nil
}
