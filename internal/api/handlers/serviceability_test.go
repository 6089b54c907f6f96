package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-serviceability-service/internal/ports"
	"delivery-serviceability-service/internal/services"
)

type fakeChecker struct {
	req    services.CheckRequest
	result services.CheckResult
	err    error
}

func (f *fakeChecker) Check(_ context.Context, req services.CheckRequest) (services.CheckResult, error) {
	f.req = req
	return f.result, f.err
}

func postCheck(t *testing.T, checker *fakeChecker, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewServiceabilityHandler(checker, slog.New(slog.DiscardHandler))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/check-delivery", strings.NewReader(body))

	h.CheckDelivery(rec, req)
	return rec
}

func TestCheckDelivery_MalformedBody(t *testing.T) {
	rec := postCheck(t, &fakeChecker{}, "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckDelivery_InvalidPincodeMapsTo400(t *testing.T) {
	checker := &fakeChecker{err: services.ErrInvalidPincode}
	rec := postCheck(t, checker, `{"pincode": "12ab"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid pincode format. Please enter a 6-digit pincode.", body["message"])
}

func TestCheckDelivery_AuthFailuresMapTo401(t *testing.T) {
	for _, err := range []error{ports.ErrAuthentication, ports.ErrUnauthorized} {
		rec := postCheck(t, &fakeChecker{err: err}, `{"pincode": "110001"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "err=%v", err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Authentication failed. Please try again.", body["message"])
	}
}

func TestCheckDelivery_SoftFailureIs200(t *testing.T) {
	checker := &fakeChecker{result: services.CheckResult{
		Success: false,
		Message: "Delivery not available for this pincode",
	}}
	rec := postCheck(t, checker, `{"pincode": "560001"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Delivery not available for this pincode", body["message"])
	assert.NotContains(t, body, "courier_name")
}

func TestCheckDelivery_SuccessPayload(t *testing.T) {
	checker := &fakeChecker{result: services.CheckResult{
		Success:        true,
		DeliveryTime:   "2-4 hours",
		DeliveryCharge: 60,
		CourierName:    "Shadowfax Quick",
		CourierID:      "45",
		ETA:            "Delivery within 4 hours",
		ETDHours:       4,
		Hyperlocal:     true,
		ServiceTier:    "quick",
		TotalCouriers:  3,
		QuickCouriers:  2,
	}}
	rec := postCheck(t, checker, `{"pincode": "110001", "weight": 1.2, "cod": true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "2-4 hours", body["delivery_time"])
	assert.Equal(t, 60.0, body["delivery_charge"])
	assert.Equal(t, "Shadowfax Quick", body["courier_name"])
	assert.Equal(t, "45", body["courier_id"])
	assert.Equal(t, true, body["is_hyperlocal"])
	assert.Equal(t, "quick", body["service_type"])
	assert.Equal(t, 3.0, body["total_couriers_available"])
	assert.Equal(t, 2.0, body["hyperlocal_couriers_available"])

	// Request fields must reach the pipeline untranslated.
	assert.Equal(t, "110001", checker.req.Pincode)
	assert.Equal(t, 1.2, checker.req.WeightKg)
	assert.True(t, checker.req.COD)
}
