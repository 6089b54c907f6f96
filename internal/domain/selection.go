package domain

import (
	"fmt"
	"math"
	"strings"
)

// DefaultProviderFragments are the known fast/hyperlocal courier name
// fragments. A quote whose courier name contains one of these qualifies
// regardless of its ETD. The list is a heuristic inherited from the
// upstream integration; it is configurable, not extended here.
var DefaultProviderFragments = []string{
	"quick",
	"shadowfax",
	"dunzo",
	"borzo",
	"ola",
	"flash",
	"loadshare",
	"rapido",
	"wefast",
	"porter",
	"delhivery",
	"ecom",
}

const (
	// ETD assumed for a quote that reports no hours at all: never
	// qualifies on time, and classifies just past next-day.
	missingETDHours = 999

	// ETD assumed for the selected quote when classifying without hours.
	classifyETDHours = 48

	// Delivery charge applied when the selected quote carries no price.
	DefaultDeliveryCharge = 49

	// Quotes at or under this many hours qualify as quick delivery.
	quickDeliveryMaxHours = 12
)

// Selection is the outcome of ranking a non-empty quote list: the chosen
// quote plus the derived delivery-speed tier and display fields.
type Selection struct {
	Quote        CourierQuote
	DeliveryTime string
	ETAText      string
	ServiceTier  string
	Hyperlocal   bool
	Price        float64
	ETDHours     float64

	// Raw counts surfaced to the caller for display/debugging.
	TotalCouriers int
	QuickCouriers int
}

// SelectCourier picks the best quote and classifies its delivery speed.
// Returns false when the list is empty (no courier available).
//
// A quote qualifies as quick if its courier name contains a known provider
// fragment or its ETD is within the quick-delivery window. The first
// qualifying quote wins; with none, the first quote overall is kept, since
// upstream orders its list best-first.
func SelectCourier(quotes []CourierQuote, fragments []string) (Selection, bool) {
	if len(quotes) == 0 {
		return Selection{}, false
	}
	if fragments == nil {
		fragments = DefaultProviderFragments
	}

	quick := make([]CourierQuote, 0, len(quotes))
	for _, q := range quotes {
		if qualifies(q, fragments) {
			quick = append(quick, q)
		}
	}

	selected := quotes[0]
	if len(quick) > 0 {
		selected = quick[0]
	}

	hours := float64(classifyETDHours)
	if selected.ETDHours != nil {
		hours = *selected.ETDHours
	}

	sel := classifyTier(hours, selected.ETD)
	sel.Quote = selected
	sel.ETDHours = hours
	sel.TotalCouriers = len(quotes)
	sel.QuickCouriers = len(quick)

	sel.Price = DefaultDeliveryCharge
	if selected.Price != nil {
		sel.Price = *selected.Price
	}

	return sel, true
}

func qualifies(q CourierQuote, fragments []string) bool {
	name := strings.ToLower(q.Name)
	for _, f := range fragments {
		if f != "" && strings.Contains(name, strings.ToLower(f)) {
			return true
		}
	}

	hours := float64(missingETDHours)
	if q.ETDHours != nil {
		hours = *q.ETDHours
	}
	return hours <= quickDeliveryMaxHours
}

// classifyTier maps ETD hours onto a coarse delivery-speed tier.
// Thresholds are checked ascending; first match wins.
func classifyTier(hours float64, upstreamETD string) Selection {
	switch {
	case hours <= 4:
		return Selection{
			DeliveryTime: "2-4 hours",
			ETAText:      "Same Day (2-4 hours)",
			ServiceTier:  "quick",
			Hyperlocal:   true,
		}
	case hours <= 8:
		return Selection{
			DeliveryTime: "4-8 hours",
			ETAText:      "Same Day (4-8 hours)",
			ServiceTier:  "quick",
			Hyperlocal:   true,
		}
	case hours <= 12:
		return Selection{
			DeliveryTime: "Same Day",
			ETAText:      "Same Day Delivery",
			ServiceTier:  "express",
			Hyperlocal:   true,
		}
	case hours <= 24:
		return Selection{
			DeliveryTime: "Next Day",
			ETAText:      "Next Day Delivery",
			ServiceTier:  "fast",
			Hyperlocal:   false,
		}
	default:
		days := int(math.Ceil(hours / 24))
		eta := upstreamETD
		if eta == "" {
			eta = fmt.Sprintf("Delivery in %d days", days)
		}
		return Selection{
			DeliveryTime: fmt.Sprintf("%d days", days),
			ETAText:      eta,
			ServiceTier:  "standard",
			Hyperlocal:   false,
		}
	}
}
