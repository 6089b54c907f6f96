package ports

import (
	"context"
	"delivery-serviceability-service/internal/domain"
	"errors"
)

// ErrNoMatch reports that a source holds no coordinate for the postal code.
// The resolution chain treats it (and any other error) as "try the next
// source".
var ErrNoMatch = errors.New("no coordinate match")

// Port: one link in the postal-code-to-coordinate resolution chain.
type CoordinateSource interface {
	// Short stable identifier, surfaced as resolution provenance.
	Name() string

	// Resolve the postal code to a coordinate, or fail with ErrNoMatch.
	Resolve(ctx context.Context, pincode string) (domain.Coordinate, error)
}
