// Package track loads recorded walks from GPX or FIT files so they can be
// replayed through a geofence monitor.
package track

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nandanugg/walkarea/module/core/domain"
)

var (
	ErrUnknownFormat = errors.New("unknown track format")
	ErrNoTrackData   = errors.New("no track data")
)

type Format string

const (
	FormatGPX Format = "gpx"
	FormatFIT Format = "fit"
)

// DetectFormat picks the format from the file extension, falling back to the
// first bytes of the file.
func DetectFormat(name string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gpx":
		return FormatGPX, nil
	case ".fit":
		return FormatFIT, nil
	}

	if len(head) >= 12 && string(head[8:12]) == ".FIT" {
		return FormatFIT, nil
	}
	trimmed := bytes.TrimSpace(head)
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<gpx")) {
		return FormatGPX, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}

// ReadFile loads every located point of the track at path, in recorded order.
func ReadFile(path string) ([]domain.Location, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	head := data
	if len(head) > 64 {
		head = head[:64]
	}
	format, err := DetectFormat(path, head)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(data), format)
}

func Parse(r io.Reader, format Format) ([]domain.Location, error) {
	switch format {
	case FormatGPX:
		return ParseGPX(r)
	case FormatFIT:
		return ParseFIT(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
