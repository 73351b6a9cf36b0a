package milwatch

import (
	"os"
	"path/filepath"
	"testing"
)

func fptr(v float64) *float64 { return &v }

func TestContainsAnyUnitSquare(t *testing.T) {
	square := Polygon{
		Outer: []Vertex{{0, 0}, {0, 1}, {1, 1}, {1, 0}},
	}
	polys := []Polygon{square}

	tests := []struct {
		name   string
		lat    *float64
		lon    *float64
		expect bool
	}{
		{"Center is contained", fptr(0.5), fptr(0.5), true},
		{"Far point is not contained", fptr(2), fptr(2), false},
		{"Negative quadrant is not contained", fptr(-0.5), fptr(-0.5), false},
		{"Missing latitude is never contained", nil, fptr(0.5), false},
		{"Missing longitude is never contained", fptr(0.5), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsAny(tt.lat, tt.lon, polys); got != tt.expect {
				t.Errorf("ContainsAny() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestContainsAnyRespectsHoles(t *testing.T) {
	donut := Polygon{
		Outer: []Vertex{{0, 0}, {0, 4}, {4, 4}, {4, 0}},
		Holes: [][]Vertex{{{1, 1}, {1, 2}, {2, 2}, {2, 1}}},
	}
	polys := []Polygon{donut}

	if ContainsAny(fptr(1.5), fptr(1.5), polys) {
		t.Error("point inside a hole must not be contained")
	}
	if !ContainsAny(fptr(3), fptr(3), polys) {
		t.Error("point inside the outer ring and outside the hole must be contained")
	}
}

func TestContainsAnyEmptyPolygonSet(t *testing.T) {
	// The caller disables filtering for an empty set; containment itself
	// is simply false.
	if ContainsAny(fptr(0.5), fptr(0.5), nil) {
		t.Error("no polygon can contain a point")
	}
}

func TestLoadPolygonsGeoJSON(t *testing.T) {
	doc := `{
		"type": "FeatureCollection",
		"features": [
			{"geometry": {"type": "Polygon", "coordinates": [[[10, 45], [11, 45], [11, 46], [10, 46]]]}},
			{"geometry": {"type": "MultiPolygon", "coordinates": [
				[[[0, 0], [1, 0], [1, 1], [0, 1]]],
				[[[5, 5], [6, 5], [6, 6], [5, 6]]]
			]}},
			{"geometry": {"type": "Point", "coordinates": [1, 2]}}
		]
	}`
	path := filepath.Join(t.TempDir(), "region.geojson")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	polys, err := LoadPolygons(path)
	if err != nil {
		t.Fatalf("LoadPolygons() error: %v", err)
	}
	// One Polygon + two from the MultiPolygon; the Point is skipped.
	if len(polys) != 3 {
		t.Fatalf("expected 3 polygons, got %d", len(polys))
	}

	// GeoJSON coordinates are [lon, lat]: the first vertex of the first
	// polygon must be lat=45, lon=10.
	v := polys[0].Outer[0]
	if v.Lat != 45 || v.Lon != 10 {
		t.Errorf("GeoJSON axis order not swapped: got lat=%v lon=%v", v.Lat, v.Lon)
	}

	if !ContainsAny(fptr(45.5), fptr(10.5), polys) {
		t.Error("point inside the first polygon must be contained")
	}
}

func TestLoadPolygonsCustomDocument(t *testing.T) {
	// The custom format keeps [lat, lon] order.
	doc := `{"polygons": [[[[45, 10], [45, 11], [46, 11], [46, 10]]]]}`
	path := filepath.Join(t.TempDir(), "region.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	polys, err := LoadPolygons(path)
	if err != nil {
		t.Fatalf("LoadPolygons() error: %v", err)
	}
	if len(polys) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(polys))
	}
	if !ContainsAny(fptr(45.5), fptr(10.5), polys) {
		t.Error("point inside the polygon must be contained")
	}
}

func TestLoadPolygonsMissingFile(t *testing.T) {
	if _, err := LoadPolygons(filepath.Join(t.TempDir(), "nope.geojson")); err == nil {
		t.Error("expected an error for a missing polygons file")
	}
}
