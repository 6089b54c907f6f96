package domain

// CourierQuote is one courier's normalized price/time offer for a specific
// shipment. Quotes are transient: built per request, never cached.
//
// Pointer fields distinguish "upstream omitted this" from a zero value so
// selection can apply its documented defaults.
type CourierQuote struct {
	Name       string
	CourierID  string
	Price      *float64
	ETDHours   *float64
	ETD        string // upstream's own textual estimate, when present
	DistanceKm *float64
	RTORate    *float64
}
