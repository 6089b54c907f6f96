package dto

import "encoding/json"

type QuickOrderRequest struct {
	OrderData map[string]any `json:"orderData"`
}

type QuickOrderResponse struct {
	Success     bool           `json:"success"`
	Message     string         `json:"message,omitempty"`
	OrderID     any            `json:"order_id,omitempty"`
	ShipmentID  any            `json:"shipment_id,omitempty"`
	AWBCode     any            `json:"awb_code,omitempty"`
	CourierName any            `json:"courier_name,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

type TrackingResponse struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message,omitempty"`
	TrackingData json.RawMessage `json:"tracking_data,omitempty"`
}
