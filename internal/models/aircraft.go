package models

// Observation is a single aircraft sighting as reported by the feed.
// It is rebuilt on every poll cycle and never persisted directly;
// accepted sightings are converted to EventRecord instead.
//
// Optional feed fields are pointers so "absent" stays distinguishable
// from zero (a position at 0,0 is valid; a missing one is not).
type Observation struct {
	Hex         string   `json:"hex"`
	Flight      string   `json:"flight"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	AltFt       *int     `json:"alt_ft,omitempty"`
	GroundSpeed *float64 `json:"gs_kt,omitempty"`
	Timestamp   *float64 `json:"timestamp,omitempty"`
	Reg         string   `json:"reg,omitempty"`
	Squawk      string   `json:"squawk,omitempty"`
	Ground      *bool    `json:"ground,omitempty"`
	ModelDesc   string   `json:"model_desc,omitempty"`
	ModelType   string   `json:"model_t,omitempty"`
}

// ModelLine returns the human-readable model line for alert messages,
// preferring the long description over the type code.
func (o *Observation) ModelLine() string {
	if o.ModelDesc != "" {
		return "MODEL: " + o.ModelDesc
	}
	if o.ModelType != "" {
		return "MODEL: " + o.ModelType
	}
	return ""
}
