package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-serviceability-service/internal/ports"
)

type stubTokens struct {
	invalidateCalls int
	err             error
}

func (s *stubTokens) Acquire(_ context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "tok", nil
}

func (s *stubTokens) Invalidate() { s.invalidateCalls++ }

type stubOrderGateway struct {
	payload   map[string]any
	createRes map[string]any
	trackRes  json.RawMessage
	err       error
}

func (s *stubOrderGateway) CreateQuickOrder(_ context.Context, payload map[string]any, _ string) (map[string]any, error) {
	s.payload = payload
	if s.err != nil {
		return nil, s.err
	}
	return s.createRes, nil
}

func (s *stubOrderGateway) TrackShipment(_ context.Context, _, _ string) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.trackRes, nil
}

func postOrder(t *testing.T, gateway *stubOrderGateway, tokens *stubTokens, body string) *httptest.ResponseRecorder {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC))
	h := NewOrdersHandler(gateway, tokens, clock, slog.New(slog.DiscardHandler))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/create-quick-order", strings.NewReader(body))

	h.CreateQuickOrder(rec, req)
	return rec
}

func TestCreateQuickOrder_RequiresOrderData(t *testing.T) {
	rec := postOrder(t, &stubOrderGateway{}, &stubTokens{}, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateQuickOrder_RequiresCourierID(t *testing.T) {
	rec := postOrder(t, &stubOrderGateway{}, &stubTokens{},
		`{"orderData": {"billing_customer_name": "Asha"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateQuickOrder_AppliesDefaultsAndMirrorsBilling(t *testing.T) {
	gateway := &stubOrderGateway{createRes: map[string]any{
		"order_id":    float64(9001),
		"shipment_id": float64(7001),
	}}
	rec := postOrder(t, gateway, &stubTokens{}, `{"orderData": {
		"courier_id": 45,
		"billing_customer_name": "Asha",
		"billing_city": "New Delhi",
		"billing_pincode": "110001",
		"weight": 1.5
	}}`)

	require.Equal(t, http.StatusOK, rec.Code)

	p := gateway.payload
	assert.Equal(t, "2026-08-28", p["order_date"])
	assert.Equal(t, "Primary", p["pickup_location"])
	assert.Equal(t, "Hyperlocal Quick Delivery", p["comment"])
	assert.Equal(t, "India", p["billing_country"])
	assert.Equal(t, true, p["shipping_is_billing"])
	assert.Equal(t, "Prepaid", p["payment_method"])
	assert.Equal(t, 10, p["length"])
	assert.Equal(t, 1.5, p["weight"], "caller-supplied weight must win")

	// shipping_* mirrors billing_* when shipping_is_billing holds.
	assert.Equal(t, "Asha", p["shipping_customer_name"])
	assert.Equal(t, "New Delhi", p["shipping_city"])
	assert.Equal(t, "110001", p["shipping_pincode"])

	assert.NotEmpty(t, p["order_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 9001.0, body["order_id"])
	assert.Equal(t, 7001.0, body["shipment_id"])
}

func TestCreateQuickOrder_CallerOrderIDWins(t *testing.T) {
	gateway := &stubOrderGateway{createRes: map[string]any{}}
	rec := postOrder(t, gateway, &stubTokens{},
		`{"orderData": {"courier_id": 45, "order_id": "ORD-77"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD-77", gateway.payload["order_id"])
}

func TestCreateQuickOrder_UpstreamRejectionInvalidatesToken(t *testing.T) {
	gateway := &stubOrderGateway{err: ports.ErrUnauthorized}
	tokens := &stubTokens{}
	rec := postOrder(t, gateway, tokens, `{"orderData": {"courier_id": 45}}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, tokens.invalidateCalls)
}

func TestCreateQuickOrder_TokenFailure(t *testing.T) {
	tokens := &stubTokens{err: ports.ErrAuthentication}
	rec := postOrder(t, &stubOrderGateway{}, tokens, `{"orderData": {"courier_id": 45}}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTrackOrder_RelaysUpstreamPayload(t *testing.T) {
	gateway := &stubOrderGateway{trackRes: json.RawMessage(`{"tracking_data": {"shipment_status": 7}}`)}
	h := NewTrackingHandler(gateway, &stubTokens{}, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/track-order/7001", nil)
	req.SetPathValue("shipment_id", "7001")

	h.TrackOrder(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success      bool            `json:"success"`
		TrackingData json.RawMessage `json:"tracking_data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.JSONEq(t, `{"tracking_data": {"shipment_status": 7}}`, string(body.TrackingData))
}

func TestTrackOrder_UpstreamRejectionInvalidatesToken(t *testing.T) {
	gateway := &stubOrderGateway{err: ports.ErrUnauthorized}
	tokens := &stubTokens{}
	h := NewTrackingHandler(gateway, tokens, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/track-order/7001", nil)
	req.SetPathValue("shipment_id", "7001")

	h.TrackOrder(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 1, tokens.invalidateCalls)
}
