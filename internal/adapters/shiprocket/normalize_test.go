package shiprocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_StatusFlagListShape(t *testing.T) {
	raw := []byte(`{
		"status": true,
		"data": [{
			"courier_name": "Shadowfax",
			"courier_company_id": 45,
			"rates": 72.5,
			"etd": "Aug 29, 2026",
			"etd_hours": 6,
			"distance": 12.4,
			"rto_rates": 80
		}]
	}`)

	quotes := Normalize(raw)
	require.Len(t, quotes, 1)

	q := quotes[0]
	assert.Equal(t, "Shadowfax", q.Name)
	assert.Equal(t, "45", q.CourierID)
	require.NotNil(t, q.Price)
	assert.Equal(t, 72.5, *q.Price)
	require.NotNil(t, q.ETDHours)
	assert.Equal(t, 6.0, *q.ETDHours)
	assert.Equal(t, "Aug 29, 2026", q.ETD)
	require.NotNil(t, q.DistanceKm)
	assert.Equal(t, 12.4, *q.DistanceKm)
	require.NotNil(t, q.RTORate)
	assert.Equal(t, 80.0, *q.RTORate)
}

func TestNormalize_WrappedCompaniesShape(t *testing.T) {
	raw := []byte(`{
		"status": 200,
		"data": {
			"available_courier_companies": [{
				"courier_name": "Delhivery Surface",
				"courier_company_id": 21,
				"freight_charge": 60,
				"etd_hours": 4
			}]
		}
	}`)

	quotes := Normalize(raw)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Delhivery Surface", quotes[0].Name)
	assert.Equal(t, "21", quotes[0].CourierID)
	require.NotNil(t, quotes[0].Price)
	assert.Equal(t, 60.0, *quotes[0].Price)
}

func TestNormalize_BareDataListShape(t *testing.T) {
	raw := []byte(`{
		"data": [{
			"courier_name": "Borzo",
			"courier_id": "7",
			"rate": 49,
			"etd_hours": 3
		}]
	}`)

	quotes := Normalize(raw)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Borzo", quotes[0].Name)
	assert.Equal(t, "7", quotes[0].CourierID)
	require.NotNil(t, quotes[0].Price)
	assert.Equal(t, 49.0, *quotes[0].Price)
}

func TestNormalize_TopLevelCompaniesShape(t *testing.T) {
	raw := []byte(`{
		"available_courier_companies": [{
			"courier_name": "Ecom Express",
			"courier_company_id": "3",
			"freight_charge": "55.5",
			"etd_hours": 18
		}]
	}`)

	quotes := Normalize(raw)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Ecom Express", quotes[0].Name)
	require.NotNil(t, quotes[0].Price)
	assert.Equal(t, 55.5, *quotes[0].Price)
}

func TestNormalize_PriceFieldFallbackOrder(t *testing.T) {
	raw := []byte(`{
		"status": true,
		"data": [{
			"courier_name": "Any",
			"rates": 10,
			"freight_charge": 20,
			"rate": 30
		}]
	}`)

	quotes := Normalize(raw)
	require.Len(t, quotes, 1)
	require.NotNil(t, quotes[0].Price)
	assert.Equal(t, 10.0, *quotes[0].Price)
}

func TestNormalize_MissingFieldsStayAbsent(t *testing.T) {
	raw := []byte(`{"status": true, "data": [{"courier_name": "Bare"}]}`)

	quotes := Normalize(raw)
	require.Len(t, quotes, 1)
	assert.Nil(t, quotes[0].Price)
	assert.Nil(t, quotes[0].ETDHours)
	assert.Empty(t, quotes[0].CourierID)
}

func TestNormalize_UnrecognizedShapes(t *testing.T) {
	cases := map[string][]byte{
		"empty payload":    nil,
		"not json":         []byte("<html>rate limited</html>"),
		"error object":     []byte(`{"status": 404, "message": "not found"}`),
		"status false":     []byte(`{"status": false, "data": null}`),
		"scalar data":      []byte(`{"data": "nothing here"}`),
		"status true only": []byte(`{"status": true}`),
	}

	for name, raw := range cases {
		assert.Empty(t, Normalize(raw), name)
	}
}
