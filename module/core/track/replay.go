package track

import (
	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/service"
)

// Step is the outcome of feeding one recorded location to the monitor. Err is
// set when the distance could not be computed; the monitor is unchanged then.
type Step struct {
	Location domain.Location
	Event    domain.GeofenceEvent
	Err      error
}

// Replay feeds locs through a fresh monitor of the given radius in meters.
func Replay(locs []domain.Location, radius float64, distance service.DistanceFunc) ([]Step, error) {
	monitor, err := service.NewGeofenceMonitor(radius)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(locs))
	for _, loc := range locs {
		ev, err := monitor.Observe(loc.Point(), distance)
		steps = append(steps, Step{Location: loc, Event: ev, Err: err})
	}
	return steps, nil
}
