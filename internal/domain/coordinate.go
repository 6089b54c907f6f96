package domain

import "fmt"

// Immutable geographic point. Latitude and longitude are kept as decimal
// strings with fixed six-digit precision, the form the upstream
// serviceability API consumes.
type Coordinate struct {
	Lat string
	Lng string
}

// NewCoordinate formats a float pair into a Coordinate.
func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{
		Lat: fmt.Sprintf("%.6f", lat),
		Lng: fmt.Sprintf("%.6f", lng),
	}
}

func (c Coordinate) IsZero() bool {
	return c.Lat == "" || c.Lng == ""
}
