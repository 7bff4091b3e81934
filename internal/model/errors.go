package model

import "errors"

// ErrMalformedTimestamp is returned when a timestamp string cannot be
// parsed. For per-record timestamps the owning record is skipped; for
// trip-level start/end it escalates to ErrInvalidTripData.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ErrInvalidTripData is returned when required top-level structure
// (trip name, start/end dates) is missing or unparsable. Fatal for the
// whole generation run.
var ErrInvalidTripData = errors.New("invalid trip data")

// ErrInvalidRange is returned by day bucketing when the end instant
// precedes the start instant.
var ErrInvalidRange = errors.New("end date before start date")

// ErrConversionFailed is returned when the PDF conversion step fails.
// Non-fatal: the HTML artifact is still produced and the failure is
// reported as a warning.
var ErrConversionFailed = errors.New("pdf conversion failed")

// ErrGeneration wraps any other unexpected failure during assembly.
var ErrGeneration = errors.New("itinerary generation failed")
