package trip

import (
	"fmt"
	"time"

	"tripgen/internal/model"
)

// BuildDays builds one empty Day per calendar date from start's date
// through end's date inclusive. Days step by one calendar day rather
// than 24 hours so the sequence stays correct across daylight-saving
// transitions. Range validity is checked on the full instants; a start
// and end on the same calendar date yield a single Day.
func BuildDays(start, end time.Time) ([]model.Day, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start %s, end %s", model.ErrInvalidRange,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endKey := dateKey(end)

	days := make([]model.Day, 0, 8)
	for d := first; ; d = d.AddDate(0, 0, 1) {
		days = append(days, model.Day{Date: d})
		if dateKey(d) >= endKey {
			break
		}
	}
	return days, nil
}

// dateKey collapses an instant to a comparable calendar date in its own
// location.
func dateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
