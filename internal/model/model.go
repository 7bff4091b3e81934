package model

import "time"

// TripDocument is the raw trip export as uploaded or read from disk.
// It is owned by the caller; pipeline stages that need to modify it
// (e.g. the timestamp correction pass) work on a Clone.
//
// Timestamp fields are kept as strings here on purpose: the export's
// timestamp convention is inconsistent and normalization into real
// instants is a separate, explicit step (internal/trip).
type TripDocument struct {
	Trip            Trip             `json:"trip"`
	Lodgings        []Lodging        `json:"lodgings,omitempty"`
	Transportations []Transportation `json:"transportations,omitempty"`
	Activities      []Activity       `json:"activities,omitempty"`
}

// Trip holds the top-level trip metadata.
type Trip struct {
	Name         string        `json:"name"`
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	Destinations []Destination `json:"destinations,omitempty"`
	Notes        string        `json:"notes,omitempty"`
}

// Destination is one stop of the trip. Only the first destination's
// timezone participates in display-timezone resolution.
type Destination struct {
	Name        string `json:"name,omitempty"`
	StateName   string `json:"stateName,omitempty"`
	CountryName string `json:"countryName,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// Lodging is a stay with check-in and check-out timestamps.
type Lodging struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Transportation is a single travel leg. Arrival and metadata are
// optional in real exports. Type is loose: a mistyped value falls back
// to the default icon and generic description downstream.
type Transportation struct {
	Type             LooseString        `json:"type"`
	Origin           string             `json:"origin"`
	Destination      string             `json:"destination"`
	Departure        string             `json:"departure"`
	Arrival          string             `json:"arrival,omitempty"`
	Metadata         *TransportMetadata `json:"metadata,omitempty"`
	ConfirmationCode string             `json:"confirmationCode,omitempty"`
}

// TransportMetadata carries provider and reservation details.
type TransportMetadata struct {
	Provider    Provider `json:"provider,omitempty"`
	Reservation string   `json:"reservation,omitempty"`
}

// Activity is a scheduled activity; every field may be missing.
type Activity struct {
	Name      string `json:"name,omitempty"`
	Address   string `json:"address,omitempty"`
	StartDate string `json:"startDate,omitempty"`
}

// Clone returns a deep copy of the document. Slices and the metadata
// pointer are copied so that mutating the clone never touches the
// original.
func (d TripDocument) Clone() TripDocument {
	out := d

	out.Trip.Destinations = append([]Destination(nil), d.Trip.Destinations...)
	out.Lodgings = append([]Lodging(nil), d.Lodgings...)
	out.Activities = append([]Activity(nil), d.Activities...)

	out.Transportations = append([]Transportation(nil), d.Transportations...)
	for i, t := range out.Transportations {
		if t.Metadata != nil {
			m := *t.Metadata
			out.Transportations[i].Metadata = &m
		}
	}
	return out
}

// Event is a single display event inside a day bucket. Time carries the
// local wall clock in the display timezone; ordering within a day is by
// time-of-day only.
type Event struct {
	Time  time.Time
	Label string
}

// Day is a per-calendar-date container of events plus an optional
// lodging banner. Days are created empty by the bucketer and mutated
// only by the formatter passes.
type Day struct {
	Date          time.Time
	Events        []Event
	LodgingBanner string
}

// TimezoneInfo is the advisory shown when the display timezone differs
// from the trip destination's own timezone.
type TimezoneInfo struct {
	Difference          float64
	Message             string
	UserTimezone        string
	DestinationTimezone string
}

// RenderContext is the fully assembled input for the HTML template.
// Every field a template may reference is always set; optional values
// default to their zero value rather than being omitted.
type RenderContext struct {
	TripName        string
	TripDestination string
	StartDate       string
	EndDate         string
	Days            []Day
	TripNotes       string
	Lodgings        []Lodging
	Transportations []Transportation
	Timezone        string
	TimezoneInfo    *TimezoneInfo
}
