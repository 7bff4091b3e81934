package trip

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"tripgen/internal/model"
)

// easternName is the zone assumed for timestamps without a trailing Z.
// The upstream export writes Eastern wall-clock values but suffixes
// them with Z anyway; AdjustIncorrectUTCTimestamps strips that suffix
// so the values land in this branch.
const easternName = "America/New_York"

var easternOnce = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation(easternName)
	if err != nil {
		// No tz database available; a fixed offset keeps the pipeline
		// running rather than aborting every run.
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
})

// naiveLayouts are the accepted ISO-like layouts for timestamps that
// carry no offset, tried in order.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp converts a raw export timestamp into an absolute
// instant.
//
//   - A trailing Z marks the value as UTC; the remainder is parsed as a
//     naive timestamp in UTC.
//   - Anything else is parsed as a naive timestamp and bound to
//     America/New_York.
//   - A value with an explicit non-Z offset (e.g. +02:00) keeps its
//     wall-clock fields and is rebound to America/New_York as well.
//     This mirrors the upstream convention; do not "fix" it here
//     without also changing the correction pass.
//
// Unparsable input yields an error wrapping model.ErrMalformedTimestamp.
func ParseTimestamp(raw string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", model.ErrMalformedTimestamp)
	}

	if strings.HasSuffix(v, "Z") {
		rest := strings.TrimSuffix(v, "Z")
		for _, layout := range naiveLayouts {
			if t, err := time.ParseInLocation(layout, rest, time.UTC); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", model.ErrMalformedTimestamp, raw)
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, v, easternOnce()); err == nil {
			return t, nil
		}
	}

	// Explicit offsets end up here.
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), easternOnce()), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", model.ErrMalformedTimestamp, raw)
}

// AdjustIncorrectUTCTimestamps strips the trailing Z from every known
// timestamp field of the document so that normalization treats those
// values as Eastern wall-clock times instead of UTC. The input is never
// mutated; running the pass twice is equivalent to running it once.
func AdjustIncorrectUTCTimestamps(doc model.TripDocument) model.TripDocument {
	out := doc.Clone()

	out.Trip.StartDate = stripTrailingZ(out.Trip.StartDate)
	out.Trip.EndDate = stripTrailingZ(out.Trip.EndDate)

	for i := range out.Lodgings {
		out.Lodgings[i].StartDate = stripTrailingZ(out.Lodgings[i].StartDate)
		out.Lodgings[i].EndDate = stripTrailingZ(out.Lodgings[i].EndDate)
	}
	for i := range out.Transportations {
		out.Transportations[i].Departure = stripTrailingZ(out.Transportations[i].Departure)
		out.Transportations[i].Arrival = stripTrailingZ(out.Transportations[i].Arrival)
	}
	for i := range out.Activities {
		out.Activities[i].StartDate = stripTrailingZ(out.Activities[i].StartDate)
	}
	return out
}

// stripTrailingZ removes exactly one trailing Z. Values with explicit
// offsets (+02:00 and friends) pass through untouched.
func stripTrailingZ(s string) string {
	return strings.TrimSuffix(s, "Z")
}
