package dto

type CheckDeliveryRequest struct {
	Pincode string  `json:"pincode"`
	Lat     string  `json:"lat"`
	Lng     string  `json:"lng"`
	Weight  float64 `json:"weight"`
	COD     bool    `json:"cod"`
}

type CheckDeliveryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`

	DeliveryTime                string  `json:"delivery_time,omitempty"`
	DeliveryCharge              float64 `json:"delivery_charge,omitempty"`
	CourierName                 string  `json:"courier_name,omitempty"`
	CourierID                   string  `json:"courier_id,omitempty"`
	ETD                         string  `json:"etd,omitempty"`
	ETDHours                    float64 `json:"etd_hours,omitempty"`
	IsHyperlocal                bool    `json:"is_hyperlocal"`
	ServiceType                 string  `json:"service_type,omitempty"`
	TotalCouriersAvailable      int     `json:"total_couriers_available,omitempty"`
	HyperlocalCouriersAvailable int     `json:"hyperlocal_couriers_available,omitempty"`
}

type CoordinatePair struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

type CoordinatesResponse struct {
	Success     bool           `json:"success"`
	Pincode     string         `json:"pincode"`
	Coordinates CoordinatePair `json:"coordinates"`

	// Which resolution-chain link produced the answer: cache, a live
	// provider, or the fixed fallback.
	Source string `json:"source"`
}
