package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"delivery-serviceability-service/internal/api/dto"
	"delivery-serviceability-service/internal/platform/obs"
	"delivery-serviceability-service/internal/ports"
)

type TrackingHandler struct {
	gateway ports.OrderGateway
	tokens  ports.TokenSource
	logger  *slog.Logger
}

func NewTrackingHandler(gateway ports.OrderGateway, tokens ports.TokenSource, logger *slog.Logger) *TrackingHandler {
	return &TrackingHandler{gateway: gateway, tokens: tokens, logger: logger}
}

// TrackOrder handles GET /track-order/{shipment_id}.
func (h *TrackingHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	shipmentID := r.PathValue("shipment_id")
	if shipmentID == "" {
		writeError(w, http.StatusBadRequest, "shipment_id is required")
		return
	}

	token, err := h.tokens.Acquire(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed. Please try again.")
		return
	}

	data, err := h.gateway.TrackShipment(r.Context(), shipmentID, token)
	if err != nil {
		if errors.Is(err, ports.ErrUnauthorized) {
			h.tokens.Invalidate()
			writeError(w, http.StatusUnauthorized, "Authentication failed. Please try again.")
			return
		}
		h.logger.Error("shipment tracking failed",
			"req_id", obs.RequestID(r.Context()), "shipment_id", shipmentID, "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch tracking details. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, dto.TrackingResponse{
		Success:      true,
		TrackingData: data,
	})
}
