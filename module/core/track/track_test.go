package track

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nandanugg/walkarea/module/core/domain"
	"github.com/nandanugg/walkarea/module/core/service"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test">
  <trk>
    <name>evening walk</name>
    <trkseg>
      <trkpt lat="40.4168" lon="-3.7038"><time>2024-05-01T18:00:00Z</time><hdop>4</hdop></trkpt>
      <trkpt lat="40.4172" lon="-3.7038"><time>2024-05-01T18:01:00Z</time></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="40.4268" lon="-3.7038"><time>2024-05-01T18:10:00Z</time></trkpt>
      <trkpt lat="40.4170" lon="-3.7038"><time>2024-05-01T18:20:00Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

func TestParseGPX(t *testing.T) {
	locs, err := ParseGPX(strings.NewReader(sampleGPX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locs) != 4 {
		t.Fatalf("expected 4 locations, got %d", len(locs))
	}
	if locs[0].Lat != 40.4168 || locs[0].Lon != -3.7038 {
		t.Errorf("unexpected first point: %+v", locs[0])
	}
	if locs[0].Accuracy != 4 {
		t.Errorf("expected hdop 4 as accuracy, got %v", locs[0].Accuracy)
	}
	if locs[2].Timestamp.Minute() != 10 {
		t.Errorf("expected segments in order, got %v", locs[2].Timestamp)
	}
}

func TestParseGPX_Empty(t *testing.T) {
	_, err := ParseGPX(strings.NewReader(`<gpx><trk><trkseg></trkseg></trk></gpx>`))
	if !errors.Is(err, ErrNoTrackData) {
		t.Errorf("expected ErrNoTrackData, got %v", err)
	}
}

func TestParseGPX_BadTime(t *testing.T) {
	_, err := ParseGPX(strings.NewReader(`<gpx><trk><trkseg><trkpt lat="1" lon="2"><time>yesterday</time></trkpt></trkseg></trk></gpx>`))
	if err == nil {
		t.Error("expected error for unparsable time")
	}
}

func TestParseFIT_Garbage(t *testing.T) {
	if _, err := ParseFIT(bytes.NewReader([]byte("not a fit file"))); err == nil {
		t.Error("expected decode error")
	}
}

func TestDetectFormat(t *testing.T) {
	fitHead := []byte{14, 0x10, 0, 0, 0, 0, 0, 0, '.', 'F', 'I', 'T'}

	tests := []struct {
		name    string
		file    string
		head    []byte
		want    Format
		wantErr bool
	}{
		{"gpx extension", "walk.GPX", nil, FormatGPX, false},
		{"fit extension", "walk.fit", nil, FormatFIT, false},
		{"fit magic", "walk.bin", fitHead, FormatFIT, false},
		{"xml prolog", "walk", []byte("  <?xml version=\"1.0\"?>"), FormatGPX, false},
		{"unknown", "walk.csv", []byte("lat,lon"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.file, tt.head)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walk.gpx")
	if err := os.WriteFile(path, []byte(sampleGPX), 0o644); err != nil {
		t.Fatal(err)
	}

	locs, err := ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locs) != 4 {
		t.Errorf("expected 4 locations, got %d", len(locs))
	}
}

func TestReplay(t *testing.T) {
	locs, err := ParseGPX(strings.NewReader(sampleGPX))
	if err != nil {
		t.Fatal(err)
	}

	steps, err := Replay(locs, 500, service.HaversineDistance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		kind   domain.GeofenceEventType
		notify bool
	}{
		{domain.EventHomeEstablished, false},
		{domain.EventInside, false},
		{domain.EventOutside, true},
		{domain.EventInside, false},
	}
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(steps))
	}
	for i, w := range want {
		if steps[i].Err != nil {
			t.Fatalf("step %d: unexpected error %v", i, steps[i].Err)
		}
		if steps[i].Event.Kind != w.kind || steps[i].Event.ShouldNotify != w.notify {
			t.Errorf("step %d: expected %s/%v, got %s/%v", i, w.kind, w.notify, steps[i].Event.Kind, steps[i].Event.ShouldNotify)
		}
	}
}

func TestReplay_InvalidRadius(t *testing.T) {
	if _, err := Replay(nil, 0, service.HaversineDistance); !errors.Is(err, domain.ErrInvalidRadius) {
		t.Errorf("expected ErrInvalidRadius, got %v", err)
	}
}

func TestReplay_DistanceFailureKeepsGoing(t *testing.T) {
	locs := []domain.Location{
		{Lat: 10, Lon: 10},
		{Lat: 95, Lon: 10},
		{Lat: 10, Lon: 10.0001},
	}

	steps, err := Replay(locs, 100, service.HaversineDistance)
	if err != nil {
		t.Fatal(err)
	}
	if !errors.Is(steps[1].Err, domain.ErrDistanceComputationFailed) {
		t.Errorf("expected distance failure on bad point, got %v", steps[1].Err)
	}
	if steps[2].Err != nil || steps[2].Event.Kind != domain.EventInside {
		t.Errorf("expected replay to continue inside, got %+v", steps[2])
	}
}
