package format

import (
	"fmt"
	"sort"
	"strings"
	"time"

	appLog "tripgen/internal/log"
	"tripgen/internal/model"
	"tripgen/internal/trip"
)

// transportIcons maps lowercased transport types to display icons.
var transportIcons = map[string]string{
	"flight":    "✈️",
	"train":     "🚆",
	"bus":       "🚌",
	"ferry":     "⛴️",
	"car":       "🚗",
	"taxi":      "🚕",
	"rideshare": "🚙",
	"subway":    "🚇",
	"bike":      "🚲",
	"walk":      "🚶",
}

const defaultTransportIcon = "🚗"

// TransportIcon resolves the icon for a transport type; unrecognized
// types get the car icon.
func TransportIcon(transportType string) string {
	if icon, ok := transportIcons[strings.ToLower(transportType)]; ok {
		return icon
	}
	return defaultTransportIcon
}

// Populate fills the day buckets with lodging, transportation and
// activity events, in that fixed order, then stable-sorts each day's
// events by local time-of-day. Malformed records are skipped
// individually; the passes never abort.
func Populate(days []model.Day, doc model.TripDocument, loc *time.Location) {
	formatLodgingEvents(days, doc.Lodgings, loc)
	formatTransportEvents(days, doc.Transportations, loc)
	formatActivityEvents(days, doc.Activities, loc)

	for i := range days {
		events := days[i].Events
		sort.SliceStable(events, func(a, b int) bool {
			return secondsOfDay(events[a].Time) < secondsOfDay(events[b].Time)
		})
	}
}

// InsertEvent converts instant into the display timezone and appends
// the label to the day matching its local calendar date. Instants
// outside the built range are dropped silently.
func InsertEvent(days []model.Day, instant time.Time, loc *time.Location, label string) {
	local := instant.In(loc)
	key := dateKey(local)
	for i := range days {
		if dateKey(days[i].Date) == key {
			days[i].Events = append(days[i].Events, model.Event{Time: local, Label: label})
			return
		}
	}
}

func formatLodgingEvents(days []model.Day, lodgings []model.Lodging, loc *time.Location) {
	for _, l := range lodgings {
		if l.Name == "" {
			appLog.Debug("lodging skipped: missing name")
			continue
		}
		checkin, err := trip.ParseTimestamp(l.StartDate)
		if err != nil {
			appLog.Debug("lodging skipped: bad check-in date", "name", l.Name, "value", l.StartDate)
			continue
		}
		checkout, err := trip.ParseTimestamp(l.EndDate)
		if err != nil {
			appLog.Debug("lodging skipped: bad check-out date", "name", l.Name, "value", l.EndDate)
			continue
		}

		InsertEvent(days, checkin, loc, fmt.Sprintf("🛏 %s — Check-In at %s", clock(checkin.In(loc)), l.Name))
		InsertEvent(days, checkout, loc, fmt.Sprintf("🛏 %s — Check-Out from %s", clock(checkout.In(loc)), l.Name))

		// Nights at this lodging: check-in date inclusive, check-out
		// date exclusive. Overlapping stays overwrite each other; the
		// last lodging processed wins.
		inKey, outKey := dateKey(checkin), dateKey(checkout)
		for i := range days {
			if k := dateKey(days[i].Date); k >= inKey && k < outKey {
				days[i].LodgingBanner = fmt.Sprintf("🏨 Lodging: Staying at %s", l.Name)
			}
		}
	}
}

func formatTransportEvents(days []model.Day, transportations []model.Transportation, loc *time.Location) {
	for _, t := range transportations {
		departure, err := trip.ParseTimestamp(t.Departure)
		if err != nil {
			appLog.Debug("transportation skipped: bad departure", "type", t.Type, "value", t.Departure)
			continue
		}
		depLocal := departure.In(loc)

		label := fmt.Sprintf("%s %s — %s", TransportIcon(string(t.Type)), clock(depLocal), TransportDescription(t))
		if extra := arrivalSuffix(t, depLocal, loc); extra != "" {
			label += " " + extra
		}

		InsertEvent(days, departure, loc, label)
	}
}

// arrivalSuffix builds the "(arrives ...)" tail. Flights and trains
// always show their arrival time; other types only when the trip
// crosses a local calendar date. The date portion appears only when
// the local dates differ.
func arrivalSuffix(t model.Transportation, depLocal time.Time, loc *time.Location) string {
	if t.Arrival == "" {
		return ""
	}
	arrival, err := trip.ParseTimestamp(t.Arrival)
	if err != nil {
		appLog.Debug("transportation arrival ignored: bad value", "type", t.Type, "value", t.Arrival)
		return ""
	}
	arrLocal := arrival.In(loc)

	sameDate := dateKey(arrLocal) == dateKey(depLocal)
	typ := strings.ToLower(string(t.Type))
	if sameDate && typ != "flight" && typ != "train" {
		return ""
	}
	if sameDate {
		return fmt.Sprintf("(arrives %s)", clock(arrLocal))
	}
	return fmt.Sprintf("(arrives %s, %s)", clock(arrLocal), arrLocal.Format("Jan 02"))
}

// TransportDescription builds the human-readable description of a
// transportation leg, phrased per type and provider.
func TransportDescription(t model.Transportation) string {
	origin := t.Origin
	if origin == "" {
		origin = "Unknown Origin"
	}
	destination := t.Destination
	if destination == "" {
		destination = "Unknown Destination"
	}
	typ := titleCase(string(t.Type))
	if typ == "" {
		typ = "Unknown"
	}

	var provider string
	if t.Metadata != nil {
		provider = t.Metadata.Provider.Display()
	}

	var desc string
	switch strings.ToLower(string(t.Type)) {
	case "flight":
		desc = fmt.Sprintf("Flight from %s to %s", origin, destination)
		if provider != "" {
			desc += " via " + provider
		}
	case "train":
		desc = fmt.Sprintf("Train from %s to %s", origin, destination)
		if provider != "" {
			desc += " (" + provider + ")"
		}
	case "bus", "ferry":
		desc = fmt.Sprintf("%s from %s to %s", typ, origin, destination)
		if provider != "" {
			desc += " with " + provider
		}
	case "car":
		desc = carDescription(origin, destination, provider)
	default:
		desc = fmt.Sprintf("%s from %s to %s", typ, origin, destination)
		if provider != "" && !strings.EqualFold(provider, "self") {
			desc += " with " + provider
		}
	}

	code := t.ConfirmationCode
	if code == "" && t.Metadata != nil {
		code = t.Metadata.Reservation
	}
	if code != "" {
		desc += " (#" + code + ")"
	}
	return desc
}

func carDescription(origin, destination, provider string) string {
	switch strings.ToLower(provider) {
	case "rental":
		return fmt.Sprintf("Drive rental car from %s to %s", origin, destination)
	case "self":
		return fmt.Sprintf("Drive from %s to %s", origin, destination)
	case "uber", "lyft", "taxi":
		return fmt.Sprintf("%s from %s to %s", titleCase(provider), origin, destination)
	}
	if provider != "" {
		return fmt.Sprintf("Car from %s to %s with %s", origin, destination, provider)
	}
	return fmt.Sprintf("Car from %s to %s", origin, destination)
}

func formatActivityEvents(days []model.Day, activities []model.Activity, loc *time.Location) {
	for _, a := range activities {
		if a.StartDate == "" {
			appLog.Debug("activity skipped: missing start date", "name", a.Name)
			continue
		}
		start, err := trip.ParseTimestamp(a.StartDate)
		if err != nil {
			appLog.Debug("activity skipped: bad start date", "name", a.Name, "value", a.StartDate)
			continue
		}

		name := a.Name
		if name == "" {
			name = "Unnamed Activity"
		}

		label := fmt.Sprintf("🎟️ %s — %s", clock(start.In(loc)), name)
		if addr := strings.TrimSpace(a.Address); addr != "" && !strings.EqualFold(addr, "n/a") {
			label += " @ " + a.Address
		}

		InsertEvent(days, start, loc, label)
	}
}

// clock renders a local time without a leading zero on the hour,
// e.g. "9:30 AM".
func clock(t time.Time) string {
	return t.Format("3:04 PM")
}

// titleCase uppercases the first letter of each space-separated word
// and lowercases the rest.
func titleCase(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

func dateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
