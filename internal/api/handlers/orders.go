package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"delivery-serviceability-service/internal/api/dto"
	"delivery-serviceability-service/internal/platform/obs"
	"delivery-serviceability-service/internal/ports"
)

// Fields copied from billing_* when the caller has not set the shipping
// counterpart. The upstream rejects quick-ship payloads with a bare
// shipping block even when shipping_is_billing is set.
var mirroredOrderFields = []string{
	"customer_name", "last_name", "address", "address_2",
	"city", "pincode", "state", "country", "email", "phone",
}

type OrdersHandler struct {
	gateway ports.OrderGateway
	tokens  ports.TokenSource
	clock   clockwork.Clock
	logger  *slog.Logger
}

func NewOrdersHandler(gateway ports.OrderGateway, tokens ports.TokenSource, clock clockwork.Clock, logger *slog.Logger) *OrdersHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OrdersHandler{gateway: gateway, tokens: tokens, clock: clock, logger: logger}
}

// CreateQuickOrder handles POST /create-quick-order. The caller supplies
// whatever order fields it has; everything else is filled with quick-ship
// defaults before the payload is forwarded upstream.
func (h *OrdersHandler) CreateQuickOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.QuickOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.OrderData) == 0 {
		writeError(w, http.StatusBadRequest, "orderData is required")
		return
	}

	payload := h.applyOrderDefaults(req.OrderData)
	if _, ok := payload["courier_id"]; !ok {
		writeError(w, http.StatusBadRequest, "courier_id is required for quick-ship orders")
		return
	}

	token, err := h.tokens.Acquire(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Authentication failed. Please try again.")
		return
	}

	result, err := h.gateway.CreateQuickOrder(r.Context(), payload, token)
	if err != nil {
		if errors.Is(err, ports.ErrUnauthorized) {
			h.tokens.Invalidate()
			writeError(w, http.StatusUnauthorized, "Authentication failed. Please try again.")
			return
		}
		h.logger.Error("quick order creation failed",
			"req_id", obs.RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to create order. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, dto.QuickOrderResponse{
		Success:     true,
		Message:     "Order created successfully",
		OrderID:     result["order_id"],
		ShipmentID:  result["shipment_id"],
		AWBCode:     result["awb_code"],
		CourierName: result["courier_name"],
		Data:        result,
	})
}

// applyOrderDefaults returns a copy of data with quick-ship defaults for
// every field the caller left unset.
func (h *OrdersHandler) applyOrderDefaults(data map[string]any) map[string]any {
	payload := make(map[string]any, len(data)+16)
	for k, v := range data {
		payload[k] = v
	}

	setDefault(payload, "order_date", h.clock.Now().Format(time.DateOnly))
	setDefault(payload, "pickup_location", "Primary")
	setDefault(payload, "comment", "Hyperlocal Quick Delivery")
	setDefault(payload, "billing_country", "India")
	setDefault(payload, "shipping_is_billing", true)
	setDefault(payload, "payment_method", "Prepaid")
	setDefault(payload, "length", 10)
	setDefault(payload, "breadth", 10)
	setDefault(payload, "height", 10)
	setDefault(payload, "weight", 0.5)

	if isTrue(payload["shipping_is_billing"]) {
		for _, field := range mirroredOrderFields {
			billing := "billing_" + field
			shipping := "shipping_" + field
			if v, ok := payload[billing]; ok {
				setDefault(payload, shipping, v)
			}
		}
	}

	if _, ok := payload["order_id"]; !ok {
		payload["order_id"] = fmt.Sprintf("QD-%d", h.clock.Now().UnixMilli())
	}

	return payload
}

func setDefault(m map[string]any, key string, value any) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

func isTrue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	default:
		return false
	}
}
