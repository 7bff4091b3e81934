package render

import (
	"fmt"
	"os"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"tripgen/internal/model"
)

// defaultEventDuration is used for calendar entries because display
// events carry a start time only.
const defaultEventDuration = time.Hour

// BuildICS serializes the bucketed itinerary as an iCalendar document
// so the trip can be imported into a calendar application.
func BuildICS(ctx model.RenderContext) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//tripgen//itinerary//EN")
	cal.SetXWRCalName(ctx.TripName)

	now := time.Now().UTC()
	for _, day := range ctx.Days {
		if day.LodgingBanner != "" {
			ev := cal.AddEvent(uuid.NewString() + "@tripgen")
			ev.SetDtStampTime(now)
			ev.SetAllDayStartAt(day.Date)
			ev.SetAllDayEndAt(day.Date.AddDate(0, 0, 1))
			ev.SetSummary(day.LodgingBanner)
		}
		for _, e := range day.Events {
			ev := cal.AddEvent(uuid.NewString() + "@tripgen")
			ev.SetDtStampTime(now)
			ev.SetStartAt(e.Time)
			ev.SetEndAt(e.Time.Add(defaultEventDuration))
			ev.SetSummary(e.Label)
		}
	}
	return []byte(cal.Serialize())
}

// WriteICS writes the iCalendar export to path.
func WriteICS(ctx model.RenderContext, path string) (string, error) {
	if err := os.WriteFile(path, BuildICS(ctx), 0o644); err != nil {
		return "", fmt.Errorf("write ics: %w", err)
	}
	return path, nil
}
