package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"delivery-serviceability-service/internal/api/dto"
	"delivery-serviceability-service/internal/platform/obs"
	"delivery-serviceability-service/internal/ports"
	"delivery-serviceability-service/internal/services"
)

// DeliveryChecker runs one serviceability check.
type DeliveryChecker interface {
	Check(ctx context.Context, req services.CheckRequest) (services.CheckResult, error)
}

type ServiceabilityHandler struct {
	checker DeliveryChecker
	logger  *slog.Logger
}

func NewServiceabilityHandler(checker DeliveryChecker, logger *slog.Logger) *ServiceabilityHandler {
	return &ServiceabilityHandler{checker: checker, logger: logger}
}

// CheckDelivery handles POST /check-delivery.
func (h *ServiceabilityHandler) CheckDelivery(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.checker.Check(r.Context(), services.CheckRequest{
		Pincode:  req.Pincode,
		Lat:      req.Lat,
		Lng:      req.Lng,
		WeightKg: req.Weight,
		COD:      req.COD,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPincode):
			writeError(w, http.StatusBadRequest, "Invalid pincode format. Please enter a 6-digit pincode.")
		case errors.Is(err, ports.ErrAuthentication), errors.Is(err, ports.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "Authentication failed. Please try again.")
		default:
			h.logger.Error("check delivery failed",
				"req_id", obs.RequestID(r.Context()), "error", err)
			writeError(w, http.StatusInternalServerError, "Unable to check delivery availability. Please try again.")
		}
		return
	}

	if !res.Success {
		writeJSON(w, http.StatusOK, dto.CheckDeliveryResponse{Success: false, Message: res.Message})
		return
	}

	writeJSON(w, http.StatusOK, dto.CheckDeliveryResponse{
		Success:                     true,
		DeliveryTime:                res.DeliveryTime,
		DeliveryCharge:              res.DeliveryCharge,
		CourierName:                 res.CourierName,
		CourierID:                   res.CourierID,
		ETD:                         res.ETA,
		ETDHours:                    res.ETDHours,
		IsHyperlocal:                res.Hyperlocal,
		ServiceType:                 res.ServiceTier,
		TotalCouriersAvailable:      res.TotalCouriers,
		HyperlocalCouriersAvailable: res.QuickCouriers,
	})
}
