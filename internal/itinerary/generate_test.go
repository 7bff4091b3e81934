package itinerary_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripgen/internal/itinerary"
	"tripgen/internal/model"
)

func sampleDocument() model.TripDocument {
	return model.TripDocument{
		Trip: model.Trip{
			Name:      "Japan 2025",
			StartDate: "2025-05-10T09:00:00Z",
			EndDate:   "2025-05-15T17:00:00Z",
			Notes:     "Bring the rail pass.",
			Destinations: []model.Destination{
				{Name: "Tokyo", CountryName: "Japan", Timezone: "Asia/Tokyo"},
			},
		},
		Lodgings: []model.Lodging{
			{Name: "Shinjuku Hotel", StartDate: "2025-05-10T14:00:00Z", EndDate: "2025-05-15T10:00:00Z"},
		},
		Transportations: []model.Transportation{
			{Type: "flight", Origin: "JFK", Destination: "NRT", Departure: "2025-05-10T12:00:00Z", Arrival: "2025-05-11T02:00:00Z"},
		},
		Activities: []model.Activity{
			{Name: "Museum Visit", Address: "1 Museum Way", StartDate: "2025-05-12T10:00:00Z"},
		},
	}
}

func TestAssembleDefaultsToDestinationTimezone(t *testing.T) {
	rc, err := itinerary.Assemble(sampleDocument(), "", "")
	require.NoError(t, err)

	assert.Equal(t, "Japan 2025", rc.TripName)
	assert.Equal(t, "Tokyo, Japan", rc.TripDestination)
	assert.Equal(t, "May 10, 2025", rc.StartDate)
	assert.Equal(t, "May 15, 2025", rc.EndDate)
	assert.Len(t, rc.Days, 6)
	assert.Equal(t, "Bring the rail pass.", rc.TripNotes)
	assert.Len(t, rc.Lodgings, 1)
	assert.Len(t, rc.Transportations, 1)

	// Neither the user nor the environment picked a zone, so the
	// heading falls back to the generic label and no advisory applies.
	assert.Equal(t, "Local time at each location", rc.Timezone)
	assert.Nil(t, rc.TimezoneInfo)
}

func TestAssembleUserTimezoneGetsAdvisory(t *testing.T) {
	rc, err := itinerary.Assemble(sampleDocument(), "America/New_York", "")
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", rc.Timezone)
	require.NotNil(t, rc.TimezoneInfo)
	assert.Equal(t, "America/New_York", rc.TimezoneInfo.UserTimezone)
	assert.Equal(t, "Asia/Tokyo", rc.TimezoneInfo.DestinationTimezone)
	assert.Contains(t, rc.TimezoneInfo.Message, "hours ahead of your timezone")
}

func TestAssembleInvalidUserTimezoneFallsThrough(t *testing.T) {
	rc, err := itinerary.Assemble(sampleDocument(), "Not/AZone", "")
	require.NoError(t, err)

	// Resolution lands on the destination zone; the advisory is
	// suppressed because display and destination agree.
	assert.Equal(t, "Local time at each location", rc.Timezone)
	assert.Nil(t, rc.TimezoneInfo)
}

func TestAssemblePopulatesDays(t *testing.T) {
	rc, err := itinerary.Assemble(sampleDocument(), "", "")
	require.NoError(t, err)

	var all []string
	for _, d := range rc.Days {
		for _, e := range d.Events {
			all = append(all, e.Label)
		}
	}
	assert.NotEmpty(t, all)

	var banners int
	for _, d := range rc.Days {
		if d.LodgingBanner != "" {
			banners++
		}
	}
	assert.Equal(t, 5, banners)
}

func TestAssembleRejectsInvalidTrip(t *testing.T) {
	doc := sampleDocument()
	doc.Trip.Name = ""
	_, err := itinerary.Assemble(doc, "", "")
	assert.ErrorIs(t, err, model.ErrInvalidTripData)

	doc = sampleDocument()
	doc.Trip.StartDate = "not-a-date"
	_, err = itinerary.Assemble(doc, "", "")
	assert.ErrorIs(t, err, model.ErrInvalidTripData)
}

func TestAssembleRejectsReversedRange(t *testing.T) {
	doc := sampleDocument()
	doc.Trip.StartDate = "2025-05-15T09:00:00Z"
	doc.Trip.EndDate = "2025-05-10T09:00:00Z"

	_, err := itinerary.Assemble(doc, "", "")
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}

type stubConverter struct {
	err    error
	called bool
}

func (s *stubConverter) Convert(_ context.Context, _, pdfPath string) error {
	s.called = true
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(pdfPath, []byte("%PDF-1.4 stub"), 0644)
}

func TestGenerateFromDocumentHTMLOnly(t *testing.T) {
	dir := t.TempDir()
	opts := itinerary.Options{OutputHTML: filepath.Join(dir, "itinerary.html")}

	res, err := itinerary.GenerateFromDocument(context.Background(), sampleDocument(), opts)
	require.NoError(t, err)

	assert.Equal(t, opts.OutputHTML, res.HTMLPath)
	assert.Empty(t, res.PDFPath)
	assert.Empty(t, res.ICSPath)

	html, err := os.ReadFile(res.HTMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Japan 2025")
	assert.Contains(t, string(html), "Museum Visit")
}

func TestGenerateFromDocumentWithPDF(t *testing.T) {
	dir := t.TempDir()
	conv := &stubConverter{}
	opts := itinerary.Options{
		OutputHTML: filepath.Join(dir, "itinerary.html"),
		OutputPDF:  filepath.Join(dir, "itinerary.pdf"),
		Converter:  conv,
	}

	res, err := itinerary.GenerateFromDocument(context.Background(), sampleDocument(), opts)
	require.NoError(t, err)

	assert.True(t, conv.called)
	assert.Equal(t, opts.OutputPDF, res.PDFPath)
	assert.FileExists(t, res.PDFPath)
}

func TestGenerateFromDocumentConversionFailureKeepsHTML(t *testing.T) {
	dir := t.TempDir()
	conv := &stubConverter{err: errors.New("gotenberg unreachable")}
	opts := itinerary.Options{
		OutputHTML: filepath.Join(dir, "itinerary.html"),
		OutputPDF:  filepath.Join(dir, "itinerary.pdf"),
		Converter:  conv,
	}

	res, err := itinerary.GenerateFromDocument(context.Background(), sampleDocument(), opts)
	require.NoError(t, err)

	assert.True(t, conv.called)
	assert.Empty(t, res.PDFPath)
	assert.FileExists(t, res.HTMLPath)
}

func TestGenerateFromDocumentICS(t *testing.T) {
	dir := t.TempDir()
	opts := itinerary.Options{
		OutputHTML: filepath.Join(dir, "itinerary.html"),
		OutputICS:  filepath.Join(dir, "itinerary.ics"),
	}

	res, err := itinerary.GenerateFromDocument(context.Background(), sampleDocument(), opts)
	require.NoError(t, err)
	require.Equal(t, opts.OutputICS, res.ICSPath)

	ics, err := os.ReadFile(res.ICSPath)
	require.NoError(t, err)
	assert.Contains(t, string(ics), "BEGIN:VCALENDAR")
	assert.Contains(t, string(ics), "Japan 2025")
}

func TestGenerateReadsInputFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "trip.json")
	require.NoError(t, os.WriteFile(input, []byte(`{
		"trip": {
			"name": "Weekend Away",
			"startDate": "2025-06-06T09:00:00Z",
			"endDate": "2025-06-08T17:00:00Z"
		}
	}`), 0644))

	opts := itinerary.Options{
		InputPath:  input,
		OutputHTML: filepath.Join(dir, "itinerary.html"),
	}

	res, err := itinerary.Generate(context.Background(), opts)
	require.NoError(t, err)
	assert.FileExists(t, res.HTMLPath)
}

func TestGenerateMissingInputFile(t *testing.T) {
	opts := itinerary.Options{
		InputPath:  filepath.Join(t.TempDir(), "absent.json"),
		OutputHTML: filepath.Join(t.TempDir(), "itinerary.html"),
	}

	_, err := itinerary.Generate(context.Background(), opts)
	assert.Error(t, err)
}
