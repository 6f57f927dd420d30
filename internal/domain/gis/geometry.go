// Package gis holds the parcel geometry model: coordinate transforms,
// GeoJSON polygons, area computation and APN normalization.
package gis

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const (
	// EarthRadiusMeters is the WGS84 semi-major axis used by Web Mercator
	EarthRadiusMeters = 6378137.0

	// SquareMetersPerAcre converts square meters to US survey acres
	SquareMetersPerAcre = 4046.8564224

	GeometryTypePolygon      = "Polygon"
	GeometryTypeMultiPolygon = "MultiPolygon"
)

// Position is a [lon, lat] pair in GeoJSON order
type Position [2]float64

// Lon returns the longitude
func (p Position) Lon() float64 { return p[0] }

// Lat returns the latitude
func (p Position) Lat() float64 { return p[1] }

// WebMercatorToWGS84 converts EPSG:3857 meters to EPSG:4326 degrees
func WebMercatorToWGS84(x, y float64) Position {
	lon := x / EarthRadiusMeters * 180.0 / math.Pi
	lat := (2*math.Atan(math.Exp(y/EarthRadiusMeters)) - math.Pi/2) * 180.0 / math.Pi
	return Position{lon, lat}
}

// WGS84ToWebMercator converts EPSG:4326 degrees to EPSG:3857 meters
func WGS84ToWebMercator(p Position) (x, y float64) {
	x = p.Lon() * math.Pi / 180.0 * EarthRadiusMeters
	y = math.Log(math.Tan(math.Pi/4+p.Lat()*math.Pi/360.0)) * EarthRadiusMeters
	return x, y
}

// Geometry is a GeoJSON Polygon or MultiPolygon stored as jsonb.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// NewPolygon builds a Polygon geometry from rings (outer ring first)
func NewPolygon(rings [][]Position) (Geometry, error) {
	raw, err := json.Marshal(rings)
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{Type: GeometryTypePolygon, Coordinates: raw}, nil
}

// IsZero reports whether the geometry is unset
func (g Geometry) IsZero() bool {
	return g.Type == "" && len(g.Coordinates) == 0
}

// Polygons returns the geometry as a list of polygons, each a list of rings
func (g Geometry) Polygons() ([][][]Position, error) {
	switch g.Type {
	case GeometryTypePolygon:
		var rings [][]Position
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("decode polygon: %w", err)
		}
		return [][][]Position{rings}, nil
	case GeometryTypeMultiPolygon:
		var polys [][][]Position
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("decode multipolygon: %w", err)
		}
		return polys, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

// Validate checks the geometry has at least one closed ring of four positions
// with coordinates inside WGS84 bounds.
func (g Geometry) Validate() error {
	polys, err := g.Polygons()
	if err != nil {
		return err
	}
	if len(polys) == 0 {
		return errors.New("geometry has no polygons")
	}
	for _, rings := range polys {
		if len(rings) == 0 {
			return errors.New("polygon has no rings")
		}
		for _, ring := range rings {
			if len(ring) < 4 {
				return errors.New("ring must have at least 4 positions")
			}
			if ring[0] != ring[len(ring)-1] {
				return errors.New("ring is not closed")
			}
			for _, p := range ring {
				if p.Lon() < -180 || p.Lon() > 180 || p.Lat() < -90 || p.Lat() > 90 {
					return fmt.Errorf("position %v outside WGS84 bounds", p)
				}
			}
		}
	}
	return nil
}

// AreaSquareMeters returns the spherical area of the geometry. Inner rings
// are subtracted from their polygon's outer ring.
func (g Geometry) AreaSquareMeters() (float64, error) {
	polys, err := g.Polygons()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, rings := range polys {
		for i, ring := range rings {
			a := ringArea(ring)
			if i == 0 {
				total += a
			} else {
				total -= a
			}
		}
	}
	return total, nil
}

// AreaAcres returns the spherical area in acres
func (g Geometry) AreaAcres() (float64, error) {
	m2, err := g.AreaSquareMeters()
	if err != nil {
		return 0, err
	}
	return m2 / SquareMetersPerAcre, nil
}

// ringArea is the spherical excess approximation used by most web GIS tooling.
func ringArea(ring []Position) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n-1; i++ {
		p1, p2 := ring[i], ring[i+1]
		sum += toRad(p2.Lon()-p1.Lon()) * (2 + math.Sin(toRad(p1.Lat())) + math.Sin(toRad(p2.Lat())))
	}
	return math.Abs(sum * EarthRadiusMeters * EarthRadiusMeters / 2)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Value implements driver.Valuer for jsonb columns
func (g Geometry) Value() (driver.Value, error) {
	if g.IsZero() {
		return nil, nil
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for jsonb columns
func (g *Geometry) Scan(value interface{}) error {
	if value == nil {
		*g = Geometry{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Geometry", value)
	}
	if len(b) == 0 {
		*g = Geometry{}
		return nil
	}
	return json.Unmarshal(b, g)
}
