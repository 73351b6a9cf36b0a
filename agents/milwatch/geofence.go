package milwatch

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Vertex is a polygon corner in latitude/longitude order.
type Vertex struct {
	Lat float64
	Lon float64
}

// Polygon is an outer ring with zero or more hole rings. A point is
// inside the polygon when it is inside the outer ring and inside none
// of the holes.
type Polygon struct {
	Outer []Vertex
	Holes [][]Vertex
}

// LoadPolygons reads a geofence file. Two formats are accepted: a
// GeoJSON FeatureCollection (Polygon/MultiPolygon, coordinates in
// [lon, lat] order) or a custom {"polygons": [...]} document whose
// rings are already in [lat, lon] order. Unrecognized geometry types
// are skipped.
func LoadPolygons(path string) ([]Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read polygons file %s: %w", path, err)
	}

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
		Polygons [][][][]float64 `json:"polygons"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse polygons file %s: %w", path, err)
	}

	var polys []Polygon
	switch {
	case doc.Type == "FeatureCollection":
		skipped := 0
		for _, feat := range doc.Features {
			switch feat.Geometry.Type {
			case "Polygon":
				var rings [][][]float64
				if err := json.Unmarshal(feat.Geometry.Coordinates, &rings); err != nil {
					return nil, fmt.Errorf("invalid Polygon coordinates in %s: %w", path, err)
				}
				p, err := polygonFromRings(rings, true)
				if err != nil {
					return nil, err
				}
				polys = append(polys, p)
			case "MultiPolygon":
				var multi [][][][]float64
				if err := json.Unmarshal(feat.Geometry.Coordinates, &multi); err != nil {
					return nil, fmt.Errorf("invalid MultiPolygon coordinates in %s: %w", path, err)
				}
				for _, rings := range multi {
					p, err := polygonFromRings(rings, true)
					if err != nil {
						return nil, err
					}
					polys = append(polys, p)
				}
			default:
				skipped++
			}
		}
		if skipped > 0 {
			log.Printf("Skipped %d feature(s) with unsupported geometry types in %s", skipped, path)
		}
	case doc.Polygons != nil:
		for _, rings := range doc.Polygons {
			p, err := polygonFromRings(rings, false)
			if err != nil {
				return nil, err
			}
			polys = append(polys, p)
		}
	}
	return polys, nil
}

// polygonFromRings converts raw ring coordinates; lonLat selects GeoJSON
// [lon, lat] point order over the custom format's [lat, lon].
func polygonFromRings(rings [][][]float64, lonLat bool) (Polygon, error) {
	var p Polygon
	for i, raw := range rings {
		ring := make([]Vertex, 0, len(raw))
		for _, pt := range raw {
			if len(pt) < 2 {
				return Polygon{}, fmt.Errorf("polygon point needs 2 coordinates, got %d", len(pt))
			}
			if lonLat {
				ring = append(ring, Vertex{Lat: pt[1], Lon: pt[0]})
			} else {
				ring = append(ring, Vertex{Lat: pt[0], Lon: pt[1]})
			}
		}
		if i == 0 {
			p.Outer = ring
		} else {
			p.Holes = append(p.Holes, ring)
		}
	}
	return p, nil
}

// pointInRing counts horizontal ray crossings; an odd count is inside.
// The 1e-12 term keeps horizontal edges from dividing by zero and also
// decides which side boundary-adjacent points land on, so it must stay
// exactly as is.
func pointInRing(lat, lon float64, ring []Vertex) bool {
	x, y := lon, lat
	inside := false
	n := len(ring)
	for i := 0; i < n; i++ {
		yi, xi := ring[i].Lat, ring[i].Lon
		yj, xj := ring[(i+1)%n].Lat, ring[(i+1)%n].Lon
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi {
			inside = !inside
		}
	}
	return inside
}

func pointInPolygon(lat, lon float64, p Polygon) bool {
	if len(p.Outer) == 0 {
		return false
	}
	if !pointInRing(lat, lon, p.Outer) {
		return false
	}
	for _, hole := range p.Holes {
		if pointInRing(lat, lon, hole) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether the point lies inside any polygon. A point
// with an unknown latitude or longitude is never contained.
func ContainsAny(lat, lon *float64, polys []Polygon) bool {
	if lat == nil || lon == nil {
		return false
	}
	for _, p := range polys {
		if pointInPolygon(*lat, *lon, p) {
			return true
		}
	}
	return false
}
