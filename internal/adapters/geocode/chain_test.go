package geocode

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-serviceability-service/internal/domain"
	"delivery-serviceability-service/internal/ports"
)

type countingSource struct {
	name  string
	calls int
	coord domain.Coordinate
	err   error
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) Resolve(_ context.Context, _ string) (domain.Coordinate, error) {
	s.calls++
	if s.err != nil {
		return domain.Coordinate{}, s.err
	}
	return s.coord, nil
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func TestResolver_SecondLookupServedFromCache(t *testing.T) {
	src := &countingSource{name: "nominatim", coord: domain.NewCoordinate(28.6139, 77.2090)}
	r := NewResolver([]ports.CoordinateSource{src}, domain.NewCoordinate(0, 0), discardLogger(), nil)

	first, from1 := r.Resolve(context.Background(), "110001")
	second, from2 := r.Resolve(context.Background(), "110001")

	assert.Equal(t, 1, src.calls, "second resolution must not hit the network")
	assert.Equal(t, "nominatim", from1)
	assert.Equal(t, SourceCache, from2)
	assert.Equal(t, first, second)
}

func TestResolver_TriesSourcesInOrder(t *testing.T) {
	primary := &countingSource{name: "nominatim", err: ports.ErrNoMatch}
	secondary := &countingSource{name: "postal-directory", coord: domain.NewCoordinate(12.9716, 77.5946)}
	r := NewResolver([]ports.CoordinateSource{primary, secondary}, domain.NewCoordinate(0, 0), discardLogger(), nil)

	coord, from := r.Resolve(context.Background(), "560001")

	require.Equal(t, "postal-directory", from)
	assert.Equal(t, "12.971600", coord.Lat)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestResolver_FallbackWhenAllSourcesFail(t *testing.T) {
	primary := &countingSource{name: "nominatim", err: ports.ErrNoMatch}
	fallback := domain.NewCoordinate(28.6139, 77.2090)
	r := NewResolver([]ports.CoordinateSource{primary}, fallback, discardLogger(), nil)

	coord, from := r.Resolve(context.Background(), "999999")
	assert.Equal(t, SourceFallback, from)
	assert.Equal(t, fallback, coord)

	// The fallback outcome is cached too: no renewed network attempts.
	_, from = r.Resolve(context.Background(), "999999")
	assert.Equal(t, SourceCache, from)
	assert.Equal(t, 1, primary.calls)
}

func TestResolver_DistinctPincodesResolveIndependently(t *testing.T) {
	src := &countingSource{name: "nominatim", coord: domain.NewCoordinate(28.6139, 77.2090)}
	r := NewResolver([]ports.CoordinateSource{src}, domain.NewCoordinate(0, 0), discardLogger(), nil)

	r.Resolve(context.Background(), "110001")
	r.Resolve(context.Background(), "110002")

	assert.Equal(t, 2, src.calls)
}
