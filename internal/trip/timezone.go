package trip

import (
	"fmt"
	"strconv"
	"time"

	appLog "tripgen/internal/log"
	"tripgen/internal/model"
)

// ResolveDisplayTimezone picks the single timezone used to render all
// local times for one generation run. Priority, first valid wins:
//
//  1. the user-supplied zone
//  2. the environment-configured zone (sourced once at startup by the
//     config layer, never read here)
//  3. the trip's first destination timezone
//  4. UTC
//
// Invalid candidates fall through; the function never fails.
func ResolveDisplayTimezone(userTZ, envTZ string, trip model.Trip) (string, *time.Location) {
	for _, name := range []string{userTZ, envTZ, DestinationTimezone(trip)} {
		if name == "" {
			continue
		}
		if loc, ok := zone(name); ok {
			return name, loc
		}
		appLog.Debug("ignoring unresolvable timezone", "name", name)
	}
	return "UTC", time.UTC
}

// DestinationTimezone returns the timezone of the trip's first
// destination, or "" when none is attached.
func DestinationTimezone(trip model.Trip) string {
	if len(trip.Destinations) == 0 {
		return ""
	}
	return trip.Destinations[0].Timezone
}

// ZoneValid reports whether name resolves against the tz database.
func ZoneValid(name string) bool {
	_, ok := zone(name)
	return ok
}

func zone(name string) (*time.Location, bool) {
	if name == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// TimezoneDifference returns the signed hour difference between two
// zones at the reference instant: positive when target is ahead of
// source.
func TimezoneDifference(source, target *time.Location, ref time.Time) float64 {
	_, sourceOffset := ref.In(source).Zone()
	_, targetOffset := ref.In(target).Zone()
	return float64(targetOffset-sourceOffset) / 3600
}

// TimezoneInfo builds the advisory shown when the display timezone and
// the destination timezone differ, evaluated at the current time.
func TimezoneInfo(userTZ, destTZ string) *model.TimezoneInfo {
	return TimezoneInfoAt(userTZ, destTZ, time.Now())
}

// TimezoneInfoAt is TimezoneInfo with an explicit reference instant.
// Returns nil when either zone does not resolve.
func TimezoneInfoAt(userTZ, destTZ string, ref time.Time) *model.TimezoneInfo {
	source, ok := zone(userTZ)
	if !ok {
		return nil
	}
	target, ok := zone(destTZ)
	if !ok {
		return nil
	}

	diff := TimezoneDifference(source, target, ref)

	var msg string
	switch {
	case diff == 0:
		msg = "There is no time difference between your timezone and the destination."
	case diff > 0:
		msg = fmt.Sprintf("The destination is %s hours ahead of your timezone.", formatHours(diff))
	default:
		msg = fmt.Sprintf("The destination is %s hours behind your timezone.", formatHours(-diff))
	}

	return &model.TimezoneInfo{
		Difference:          diff,
		Message:             msg,
		UserTimezone:        userTZ,
		DestinationTimezone: destTZ,
	}
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// CommonTimezones is the zone list offered by the upload form.
func CommonTimezones() []string {
	return []string{
		"UTC",
		"America/New_York",
		"America/Chicago",
		"America/Denver",
		"America/Los_Angeles",
		"America/Anchorage",
		"Pacific/Honolulu",
		"America/Toronto",
		"America/Mexico_City",
		"America/Sao_Paulo",
		"Europe/London",
		"Europe/Paris",
		"Europe/Berlin",
		"Europe/Madrid",
		"Europe/Rome",
		"Europe/Athens",
		"Europe/Moscow",
		"Africa/Cairo",
		"Africa/Johannesburg",
		"Asia/Dubai",
		"Asia/Kolkata",
		"Asia/Bangkok",
		"Asia/Singapore",
		"Asia/Hong_Kong",
		"Asia/Shanghai",
		"Asia/Tokyo",
		"Asia/Seoul",
		"Australia/Sydney",
		"Pacific/Auckland",
	}
}
