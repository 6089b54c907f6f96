package handlers

import (
	"context"
	"net/http"
	"regexp"

	"delivery-serviceability-service/internal/api/dto"
	"delivery-serviceability-service/internal/domain"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// CoordinateResolver resolves a postal code to a coordinate and names the
// source that produced it.
type CoordinateResolver interface {
	Resolve(ctx context.Context, pincode string) (domain.Coordinate, string)
}

type CoordinatesHandler struct {
	resolver CoordinateResolver
}

func NewCoordinatesHandler(resolver CoordinateResolver) *CoordinatesHandler {
	return &CoordinatesHandler{resolver: resolver}
}

// GetCoordinates handles GET /get-coordinates/{pincode}.
func (h *CoordinatesHandler) GetCoordinates(w http.ResponseWriter, r *http.Request) {
	pincode := r.PathValue("pincode")
	if !pincodePattern.MatchString(pincode) {
		writeError(w, http.StatusBadRequest, "Invalid pincode format. Please enter a 6-digit pincode.")
		return
	}

	coord, source := h.resolver.Resolve(r.Context(), pincode)

	writeJSON(w, http.StatusOK, dto.CoordinatesResponse{
		Success: true,
		Pincode: pincode,
		Coordinates: dto.CoordinatePair{
			Lat: coord.Lat,
			Lng: coord.Lng,
		},
		Source: source,
	})
}
