package models

import (
	"fmt"
	"strings"
)

// ReferenceLinks builds lookup links for an aircraft, keyed off whichever
// identifiers the feed provided.
func ReferenceLinks(o *Observation) []string {
	var links []string
	if o.Hex != "" {
		links = append(links,
			fmt.Sprintf("[ADSB.fi](https://globe.adsb.fi/?icao=%s)", o.Hex),
			fmt.Sprintf("[ADSB Exchange](https://globe.adsbexchange.com/?icao=%s)", o.Hex),
			fmt.Sprintf("[Planespotters](https://www.planespotters.net/hex/%s)", o.Hex),
		)
	}
	if o.Flight != "" {
		links = append(links, fmt.Sprintf("[FlightAware](https://www.flightaware.com/live/flight/%s)", o.Flight))
	}
	if o.Reg != "" {
		links = append(links,
			fmt.Sprintf("[AirHistory](https://www.airhistory.net/marks-all/%s)", o.Reg),
			fmt.Sprintf("[JetPhotos](https://www.jetphotos.com/registration/%s)", o.Reg),
		)
	}
	return links
}

// AlertMessage renders the structured alert payload for a military
// sighting: identifiers first, then model, then reference links.
func AlertMessage(o *Observation) string {
	flight := o.Flight
	if flight == "" {
		flight = "-"
	}
	lines := []string{
		"MIL",
		"HEX: #" + o.Hex,
		"FLT: #" + flight,
	}
	if o.Reg != "" {
		lines = append(lines, "REG: #"+o.Reg)
	}
	if ml := o.ModelLine(); ml != "" {
		lines = append(lines, ml)
	}
	lines = append(lines, "Flag: military")

	if links := ReferenceLinks(o); len(links) > 0 {
		lines = append(lines, "")
		lines = append(lines, links...)
	}

	return strings.Join(lines, "\n")
}
