package trip

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	appLog "tripgen/internal/log"
	"tripgen/internal/model"
)

// LoadTripDocument reads and decodes a trip export from disk.
func LoadTripDocument(path string) (model.TripDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.TripDocument{}, fmt.Errorf("open trip document: %w", err)
	}
	defer f.Close()

	doc, err := DecodeTripDocument(f)
	if err != nil {
		appLog.Error("trip document decode failed", err, "path", path)
		return model.TripDocument{}, err
	}
	return doc, nil
}

// DecodeTripDocument decodes a trip export from r. Malformed JSON is a
// structural failure: the whole run cannot proceed without a document.
func DecodeTripDocument(r io.Reader) (model.TripDocument, error) {
	var doc model.TripDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return model.TripDocument{}, fmt.Errorf("%w: %v", model.ErrInvalidTripData, err)
	}
	return doc, nil
}

// ValidateTrip checks the structural fields that must be present before
// any normalization can run.
func ValidateTrip(t model.Trip) error {
	if t.Name == "" {
		return fmt.Errorf("%w: trip name is missing", model.ErrInvalidTripData)
	}
	if t.StartDate == "" || t.EndDate == "" {
		return fmt.Errorf("%w: trip start/end dates are missing", model.ErrInvalidTripData)
	}
	return nil
}
