package itinerary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tripgen/internal/format"
	appLog "tripgen/internal/log"
	"tripgen/internal/model"
	"tripgen/internal/pdf"
	"tripgen/internal/render"
	"tripgen/internal/trip"
)

// localTimeLabel is shown when no explicit display timezone was chosen:
// event times then follow each record's own convention.
const localTimeLabel = "Local time at each location"

// Options describes one generation run.
type Options struct {
	InputPath    string
	TemplatePath string // empty selects the embedded default template
	OutputHTML   string
	OutputPDF    string // empty skips PDF conversion
	OutputICS    string // empty skips the calendar export
	GotenbergURL string
	UserTimezone string
	EnvTimezone  string
	// Converter overrides the endpoint-based converter selection.
	Converter pdf.Converter
}

// Result carries the artifact paths of a completed run. PDFPath and
// ICSPath stay empty when the step was skipped or failed non-fatally.
type Result struct {
	HTMLPath string
	PDFPath  string
	ICSPath  string
}

// Assemble runs the core pipeline for one document: enrichment,
// timestamp correction, timezone resolution, day bucketing and event
// formatting, producing the template context.
func Assemble(doc model.TripDocument, userTZ, envTZ string) (model.RenderContext, error) {
	adjusted := trip.AdjustIncorrectUTCTimestamps(trip.EnrichTripDocument(doc))
	t := adjusted.Trip

	if err := trip.ValidateTrip(t); err != nil {
		return model.RenderContext{}, err
	}

	start, err := trip.ParseTimestamp(t.StartDate)
	if err != nil {
		return model.RenderContext{}, fmt.Errorf("%w: start date: %v", model.ErrInvalidTripData, err)
	}
	end, err := trip.ParseTimestamp(t.EndDate)
	if err != nil {
		return model.RenderContext{}, fmt.Errorf("%w: end date: %v", model.ErrInvalidTripData, err)
	}

	tzName, loc := trip.ResolveDisplayTimezone(userTZ, envTZ, t)

	var tzInfo *model.TimezoneInfo
	if destTZ := trip.DestinationTimezone(t); destTZ != "" && destTZ != tzName {
		tzInfo = trip.TimezoneInfo(tzName, destTZ)
	}

	days, err := trip.BuildDays(start, end)
	if err != nil {
		return model.RenderContext{}, err
	}

	format.Populate(days, adjusted, loc)

	label := localTimeLabel
	if userTZ != "" && trip.ZoneValid(userTZ) || envTZ != "" && trip.ZoneValid(envTZ) {
		label = tzName
	}

	last := len(days) - 1
	return model.RenderContext{
		TripName:        t.Name,
		TripDestination: destinationLabel(t),
		StartDate:       days[0].Date.Format("Jan 02, 2006"),
		EndDate:         days[last].Date.Format("Jan 02, 2006"),
		Days:            days,
		TripNotes:       t.Notes,
		Lodgings:        adjusted.Lodgings,
		Transportations: adjusted.Transportations,
		Timezone:        label,
		TimezoneInfo:    tzInfo,
	}, nil
}

// destinationLabel joins the first destination's name, state and
// country, omitting empty parts.
func destinationLabel(t model.Trip) string {
	if len(t.Destinations) == 0 {
		return ""
	}
	d := t.Destinations[0]
	parts := make([]string, 0, 3)
	for _, p := range []string{d.Name, d.StateName, d.CountryName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Generate runs one full generation: load, assemble, render, then the
// optional PDF conversion and calendar export. A failed conversion is
// reported as a warning and the HTML artifact is still returned; all
// other failures abort the run.
func Generate(ctx context.Context, opts Options) (Result, error) {
	doc, err := trip.LoadTripDocument(opts.InputPath)
	if err != nil {
		return Result{}, err
	}
	return GenerateFromDocument(ctx, doc, opts)
}

// GenerateFromDocument is Generate for an already decoded document.
func GenerateFromDocument(ctx context.Context, doc model.TripDocument, opts Options) (Result, error) {
	rc, err := Assemble(doc, opts.UserTimezone, opts.EnvTimezone)
	if err != nil {
		if errors.Is(err, model.ErrInvalidTripData) || errors.Is(err, model.ErrInvalidRange) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %v", model.ErrGeneration, err)
	}

	htmlPath, err := render.RenderItinerary(opts.TemplatePath, rc, opts.OutputHTML)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", model.ErrGeneration, err)
	}
	res := Result{HTMLPath: htmlPath}

	appLog.Info("itinerary rendered",
		"trip", rc.TripName,
		"days", len(rc.Days),
		"timezone", rc.Timezone,
		"html", htmlPath,
	)

	if opts.OutputICS != "" {
		icsPath, err := render.WriteICS(rc, opts.OutputICS)
		if err != nil {
			appLog.Warn("calendar export failed", "err", err, "path", opts.OutputICS)
		} else {
			res.ICSPath = icsPath
		}
	}

	if opts.OutputPDF != "" {
		conv := opts.Converter
		if conv == nil {
			if opts.GotenbergURL != "" {
				conv = pdf.NewGotenbergConverter(opts.GotenbergURL)
			} else {
				conv = pdf.NewChromiumConverter()
			}
		}
		if err := conv.Convert(ctx, htmlPath, opts.OutputPDF); err != nil {
			appLog.Warn("pdf conversion failed; html output is still available", "err", err)
		} else {
			res.PDFPath = opts.OutputPDF
		}
	}

	return res, nil
}
