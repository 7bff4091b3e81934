package trip

import "tripgen/internal/model"

// EnrichTripDocument is the extension point for augmenting a decoded
// document with external lookups before the pipeline runs: airport and
// station details, missing lodging addresses, operator names. No
// lookup sources are wired yet, so the document passes through
// unchanged.
func EnrichTripDocument(doc model.TripDocument) model.TripDocument {
	return doc
}
