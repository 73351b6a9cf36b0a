package models

import "strconv"

// EventColumns is the shared schema of the CSV sink and the events table.
// Order matters: the CSV header and the table columns follow it exactly.
var EventColumns = []string{
	"first_seen_utc", "hex", "callsign", "reg",
	"model_t", "lat", "lon", "alt_ft", "gs_kt",
	"squawk", "ground",
}

// EventRecord is the persisted form of an accepted sighting. The pair
// (FirstSeenUTC, Hex) is the row identity; re-inserting the same pair
// is a no-op in the store.
type EventRecord struct {
	FirstSeenUTC string `json:"first_seen_utc"`
	Hex          string `json:"hex"`
	Callsign     string `json:"callsign"`
	Reg          string `json:"reg"`
	ModelType    string `json:"model_t"`
	Lat          string `json:"lat"`
	Lon          string `json:"lon"`
	AltFt        string `json:"alt_ft"`
	GsKt         string `json:"gs_kt"`
	Squawk       string `json:"squawk"`
	Ground       string `json:"ground"`
}

// NewEventRecord freezes an observation into a row stamped with the
// cycle's UTC timestamp. Missing optional fields become empty strings,
// matching the CSV sink schema.
func NewEventRecord(o *Observation, firstSeenUTC string) EventRecord {
	rec := EventRecord{
		FirstSeenUTC: firstSeenUTC,
		Hex:          o.Hex,
		Callsign:     o.Flight,
		Reg:          o.Reg,
		ModelType:    o.ModelType,
		Squawk:       o.Squawk,
	}
	if o.Lat != nil {
		rec.Lat = strconv.FormatFloat(*o.Lat, 'f', -1, 64)
	}
	if o.Lon != nil {
		rec.Lon = strconv.FormatFloat(*o.Lon, 'f', -1, 64)
	}
	if o.AltFt != nil {
		rec.AltFt = strconv.Itoa(*o.AltFt)
	}
	if o.GroundSpeed != nil {
		rec.GsKt = strconv.FormatFloat(*o.GroundSpeed, 'f', -1, 64)
	}
	if o.Ground != nil {
		rec.Ground = strconv.FormatBool(*o.Ground)
	}
	return rec
}

// Row returns the record as a CSV row in EventColumns order.
func (r EventRecord) Row() []string {
	return []string{
		r.FirstSeenUTC, r.Hex, r.Callsign, r.Reg,
		r.ModelType, r.Lat, r.Lon, r.AltFt, r.GsKt,
		r.Squawk, r.Ground,
	}
}

// Fields returns the record values keyed by column name, for
// name-based lookups when ingesting CSV files with reordered headers.
func (r EventRecord) Fields() map[string]string {
	row := r.Row()
	fields := make(map[string]string, len(EventColumns))
	for i, col := range EventColumns {
		fields[col] = row[i]
	}
	return fields
}
