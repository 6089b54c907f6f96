package shiprocket

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"delivery-serviceability-service/internal/domain"
)

// The upstream returns incompatible response layouts depending on product
// line. payloadShape enumerates the known ones plus an explicit
// unrecognized variant so nothing falls through silently.
type payloadShape int

const (
	shapeStatusFlagList    payloadShape = iota // {status:true, data:[...]}
	shapeWrappedCompanies                      // {status:200, data:{available_courier_companies:[...]}}
	shapeBareDataList                          // {data:[...]}
	shapeTopLevelCompanies                     // {available_courier_companies:[...]}
	shapeUnrecognized
)

// Normalize converts any recognized raw serviceability payload into the
// normalized quote list. Unrecognized payloads yield an empty list, never
// an error: "no couriers found" is the correct reading of a shape we do
// not understand.
func Normalize(raw []byte) []domain.CourierQuote {
	shape, couriers := classify(raw)
	if shape == shapeUnrecognized {
		return []domain.CourierQuote{}
	}

	quotes := make([]domain.CourierQuote, 0, len(couriers))
	for _, rc := range couriers {
		quotes = append(quotes, rc.toQuote())
	}
	return quotes
}

// classify probes the payload against the known shapes in priority order.
func classify(raw []byte) (payloadShape, []rawCourier) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return shapeUnrecognized, nil
	}

	var env struct {
		Status                    json.RawMessage `json:"status"`
		Data                      json.RawMessage `json:"data"`
		AvailableCourierCompanies []rawCourier    `json:"available_courier_companies"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return shapeUnrecognized, nil
	}

	dataList, dataIsList := asCourierList(env.Data)

	if statusIsTrue(env.Status) && dataIsList {
		return shapeStatusFlagList, dataList
	}

	if statusIsCode(env.Status, 200) {
		if wrapped, ok := asWrappedCompanies(env.Data); ok {
			return shapeWrappedCompanies, wrapped
		}
	}

	if dataIsList {
		return shapeBareDataList, dataList
	}

	if env.AvailableCourierCompanies != nil {
		return shapeTopLevelCompanies, env.AvailableCourierCompanies
	}

	return shapeUnrecognized, nil
}

func statusIsTrue(raw json.RawMessage) bool {
	var b bool
	return json.Unmarshal(raw, &b) == nil && b
}

func statusIsCode(raw json.RawMessage, code int) bool {
	var n int
	return json.Unmarshal(raw, &n) == nil && n == code
}

func asCourierList(raw json.RawMessage) ([]rawCourier, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}

	var list []rawCourier
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, false
	}
	return list, true
}

func asWrappedCompanies(raw json.RawMessage) ([]rawCourier, bool) {
	var wrapper struct {
		AvailableCourierCompanies []rawCourier `json:"available_courier_companies"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil || wrapper.AvailableCourierCompanies == nil {
		return nil, false
	}
	return wrapper.AvailableCourierCompanies, true
}

// rawCourier is one upstream quote element across all shapes. Alternate
// field names for the same concept are kept separate here and collapsed
// left-to-right in toQuote.
type rawCourier struct {
	CourierName      string     `json:"courier_name"`
	CourierCompanyID flexString `json:"courier_company_id"`
	CourierID        flexString `json:"courier_id"`
	Rates            *flexFloat `json:"rates"`
	FreightCharge    *flexFloat `json:"freight_charge"`
	Rate             *flexFloat `json:"rate"`
	ETD              flexString `json:"etd"`
	ETDHours         *flexFloat `json:"etd_hours"`
	Distance         *flexFloat `json:"distance"`
	RTORates         *flexFloat `json:"rto_rates"`
}

func (rc rawCourier) toQuote() domain.CourierQuote {
	id := string(rc.CourierCompanyID)
	if id == "" {
		id = string(rc.CourierID)
	}

	return domain.CourierQuote{
		Name:       rc.CourierName,
		CourierID:  id,
		Price:      firstFloat(rc.Rates, rc.FreightCharge, rc.Rate),
		ETDHours:   firstFloat(rc.ETDHours),
		ETD:        string(rc.ETD),
		DistanceKm: firstFloat(rc.Distance),
		RTORate:    firstFloat(rc.RTORates),
	}
}

func firstFloat(candidates ...*flexFloat) *float64 {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		v := float64(*c)
		if math.IsNaN(v) {
			continue
		}
		return &v
	}
	return nil
}

// flexString tolerates upstream fields that arrive as either a JSON string
// or a number (courier IDs do both across API versions).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexFloat tolerates numbers, quoted numbers, null, and empty strings.
// Values that cannot be read as a number decode to NaN and read as absent.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = flexFloat(math.NaN())
		return nil
	}

	s := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = flexFloat(math.NaN())
		return nil
	}

	*f = flexFloat(v)
	return nil
}
