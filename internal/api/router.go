package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"delivery-serviceability-service/internal/api/handlers"
)

// Handlers bundles the request handlers the router mounts.
type Handlers struct {
	Serviceability *handlers.ServiceabilityHandler
	Coordinates    *handlers.CoordinatesHandler
	Orders         *handlers.OrdersHandler
	Tracking       *handlers.TrackingHandler
}

// NewRouter wires the HTTP surface: the delivery-check endpoints plus
// liveness and metrics.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /check-delivery", h.Serviceability.CheckDelivery)
	mux.HandleFunc("GET /get-coordinates/{pincode}", h.Coordinates.GetCoordinates)
	mux.HandleFunc("POST /create-quick-order", h.Orders.CreateQuickOrder)
	mux.HandleFunc("GET /track-order/{shipment_id}", h.Tracking.TrackOrder)
	mux.HandleFunc("GET /health", handlers.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	return withRequestID(withLogging(logger, mux))
}
