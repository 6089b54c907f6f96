package geocode

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"delivery-serviceability-service/internal/domain"
	"delivery-serviceability-service/internal/platform/obs"
	"delivery-serviceability-service/internal/ports"
)

// Provenance values returned by Resolve alongside the winning sources'
// own names.
const (
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// Resolver maps a postal code to a coordinate by trying an in-memory
// cache, then each configured source in order, then a fixed fallback
// point. Resolve never fails outward: serviceability checking must
// proceed even when geocoding is imperfect.
//
// The cache has no eviction. The PIN-code space is small and static, and
// the free upstream geocoders are rate-limited, so holding every answer
// for the process lifetime is the point.
type Resolver struct {
	sources  []ports.CoordinateSource
	fallback domain.Coordinate
	logger   *slog.Logger
	metrics  *obs.Metrics

	mu    sync.RWMutex
	cache map[string]domain.Coordinate
}

func NewResolver(sources []ports.CoordinateSource, fallback domain.Coordinate, logger *slog.Logger, metrics *obs.Metrics) *Resolver {
	return &Resolver{
		sources:  sources,
		fallback: fallback,
		logger:   logger,
		metrics:  metrics,
		cache:    make(map[string]domain.Coordinate),
	}
}

// Resolve returns the coordinate for a postal code and the name of the
// source that produced it.
func (r *Resolver) Resolve(ctx context.Context, pincode string) (domain.Coordinate, string) {
	if coord, ok := r.cached(pincode); ok {
		r.metrics.CountResolution(SourceCache)
		return coord, SourceCache
	}

	for _, src := range r.sources {
		coord, err := src.Resolve(ctx, pincode)
		if err != nil {
			if !errors.Is(err, ports.ErrNoMatch) {
				r.logger.Warn("geocode source failed",
					"req_id", obs.RequestID(ctx), "source", src.Name(), "pincode", pincode, "error", err)
			}
			continue
		}

		r.store(pincode, coord)
		r.metrics.CountResolution(src.Name())
		return coord, src.Name()
	}

	// Cache the fallback as well so repeated lookups for an unresolvable
	// code stop re-attempting network calls.
	r.store(pincode, r.fallback)
	r.metrics.CountResolution(SourceFallback)
	r.logger.Info("geocode fell back to default point",
		"req_id", obs.RequestID(ctx), "pincode", pincode)

	return r.fallback, SourceFallback
}

func (r *Resolver) cached(pincode string) (domain.Coordinate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coord, ok := r.cache[pincode]
	return coord, ok
}

func (r *Resolver) store(pincode string, coord domain.Coordinate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache[pincode] = coord
}
