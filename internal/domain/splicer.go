package domain

import (
	"errors"
	"fmt"
	"strings"

	"makemod.dev/pkg/makemod/internal/adapter"
	m "makemod.dev/pkg/makemod/internal/model"
)

// Malformed host-file conditions. A host file without exactly one
// begin/end marker pair is a configuration error; no content is written.
var (
	ErrBeginMarkerMissing = errors.New("begin marker not found")
	ErrEndMarkerMissing   = errors.New("end marker not found")
	ErrDuplicateMarker    = errors.New("duplicate begin marker")
)

// RegionSplicer rewrites the marker-delimited managed region of a host
// file. Everything outside the markers, the marker lines included, is
// preserved byte for byte.
type RegionSplicer struct {
	fs adapter.ModuleFSAdapter
}

// NewRegionSplicer wires a splicer to a filesystem adapter.
func NewRegionSplicer(fs adapter.ModuleFSAdapter) *RegionSplicer {
	return &RegionSplicer{fs: fs}
}

// spliceState tracks where the line cursor is relative to the managed region.
type spliceState int

const (
	beforeRegion spliceState = iota
	insideRegion
	afterRegion
)

// Splice replaces everything strictly between the begin and end marker
// lines of host with lines (each entry newline-terminated). Marker
// comparison trims trailing whitespace only. The file is read fully into
// memory and rewritten only after the whole pass succeeds, so a read
// failure never leaves it half-written.
func (s *RegionSplicer) Splice(host m.Path, begin, end string, lines []string) error {
	data, err := s.fs.ReadFile(host)
	if err != nil {
		return fmt.Errorf("read host file %s: %w", host, err)
	}

	var out strings.Builder

	state := beforeRegion

	for _, line := range strings.SplitAfter(string(data), "\n") {
		switch state {
		case beforeRegion:
			out.WriteString(line)

			if markerEquals(line, begin) {
				for _, insert := range lines {
					out.WriteString(insert)
				}

				state = insideRegion
			}

		case insideRegion:
			if markerEquals(line, end) {
				out.WriteString(line)
				state = afterRegion
			}

		case afterRegion:
			if markerEquals(line, begin) {
				return fmt.Errorf("%s: %w", host, ErrDuplicateMarker)
			}

			out.WriteString(line)
		}
	}

	switch state {
	case beforeRegion:
		return fmt.Errorf("%s: %w", host, ErrBeginMarkerMissing)
	case insideRegion:
		return fmt.Errorf("%s: %w", host, ErrEndMarkerMissing)
	case afterRegion:
	}

	if err := s.fs.WriteFile(host, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("write host file %s: %w", host, err)
	}

	return nil
}

func markerEquals(line, marker string) bool {
	return strings.TrimRight(line, " \t\r\n") == marker
}
