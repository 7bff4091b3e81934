package render_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripgen/internal/model"
	"tripgen/internal/render"
)

func sampleContext() model.RenderContext {
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	return model.RenderContext{
		TripName:        "Japan 2025",
		TripDestination: "Tokyo, Japan",
		StartDate:       "May 10, 2025",
		EndDate:         "May 11, 2025",
		Days: []model.Day{
			{
				Date:          day,
				LodgingBanner: "🏨 Lodging: Staying at Shinjuku Hotel",
				Events: []model.Event{
					{Time: day.Add(8 * time.Hour), Label: "✈️ 8:00 AM — Flight from JFK to NRT"},
				},
			},
			{Date: day.AddDate(0, 0, 1)},
		},
		TripNotes: "Bring the rail pass.",
		Timezone:  "Asia/Tokyo",
		TimezoneInfo: &model.TimezoneInfo{
			Difference: 13,
			Message:    "The destination is 13 hours ahead of your timezone.",
		},
	}
}

func TestRenderItineraryDefaultTemplate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "itinerary.html")

	path, err := render.RenderItinerary("", sampleContext(), out)
	require.NoError(t, err)
	assert.Equal(t, out, path)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "Japan 2025")
	assert.Contains(t, html, "Tokyo, Japan")
	assert.Contains(t, html, "Times shown in: Asia/Tokyo")
	assert.Contains(t, html, "The destination is 13 hours ahead of your timezone.")
	assert.Contains(t, html, "Staying at Shinjuku Hotel")
	assert.Contains(t, html, "Flight from JFK to NRT")
	assert.Contains(t, html, "Saturday, May 10, 2025")
	assert.Contains(t, html, "No scheduled events.")
	assert.Contains(t, html, "Bring the rail pass.")
}

func TestRenderItineraryCustomTemplate(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "custom.html")
	require.NoError(t, os.WriteFile(tplPath, []byte(`<h1>{{.TripName}}</h1><p>{{len .Days}} days</p>`), 0644))
	out := filepath.Join(dir, "itinerary.html")

	_, err := render.RenderItinerary(tplPath, sampleContext(), out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Japan 2025</h1><p>2 days</p>", string(data))
}

func TestRenderItineraryMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	_, err := render.RenderItinerary(filepath.Join(dir, "absent.html"), sampleContext(), filepath.Join(dir, "out.html"))
	assert.Error(t, err)
}

func TestRenderItineraryBadTemplateLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "broken.html")
	require.NoError(t, os.WriteFile(tplPath, []byte(`{{template "missing"}}`), 0644))
	out := filepath.Join(dir, "out.html")

	_, err := render.RenderItinerary(tplPath, sampleContext(), out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestBuildICS(t *testing.T) {
	ics := string(render.BuildICS(sampleContext()))

	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "END:VCALENDAR")
	assert.Contains(t, ics, "Japan 2025")
	assert.Contains(t, ics, "Staying at Shinjuku Hotel")
	assert.Contains(t, ics, "Flight from JFK to NRT")

	// One all-day lodging entry plus one timed event.
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
}

func TestWriteICS(t *testing.T) {
	out := filepath.Join(t.TempDir(), "itinerary.ics")

	path, err := render.WriteICS(sampleContext(), out)
	require.NoError(t, err)
	assert.Equal(t, out, path)
	assert.FileExists(t, out)
}
