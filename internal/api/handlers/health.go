package handlers

import (
	"net/http"
	"time"
)

// Health reports liveness. It deliberately does not touch the upstream:
// a courier-aggregator outage must not flap the service out of rotation.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   "delivery-serviceability-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
