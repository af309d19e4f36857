package cds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArea(t *testing.T) {
	a, err := ParseArea("60, -10, 35, 30")
	require.NoError(t, err)
	assert.Equal(t, Area{Lat: [2]float64{35, 60}, Lon: [2]float64{-10, 30}}, a)
	assert.Equal(t, [4]float64{60, -10, 35, 30}, a.Bounds())
	assert.Equal(t, "60/-10/35/30", a.String())
	assert.False(t, a.IsGlobal())

	for _, bad := range []string{"1,2,3", "a,b,c,d", "95,0,0,10", "10,0,20,10", "10,20,0,10", "10,-190,0,10", "NaN,0,NaN,10", "10,-Inf,0,10", "10,0,0,+Inf"} {
		_, err := ParseArea(bad)
		assert.Error(t, err, bad)
	}
}

func TestGlobalArea(t *testing.T) {
	assert.True(t, GlobalArea.IsGlobal())
	assert.Equal(t, [4]float64{90, -180, -90, 180}, GlobalArea.Bounds())
	assert.NoError(t, GlobalArea.Validate())
	assert.Error(t, Area{Lat: [2]float64{math.NaN(), 10}, Lon: [2]float64{0, 10}}.Validate())
}

func TestOverlaps(t *testing.T) {
	band := Area{Lat: [2]float64{-90, 90}, Lon: [2]float64{0, 89.95}}
	cases := []struct {
		lon  [2]float64
		want bool
	}{
		{[2]float64{10, 20}, true},
		{[2]float64{-10, 0.5}, true},
		{[2]float64{-10, 0}, false},
		{[2]float64{89.95, 100}, false},
		{[2]float64{89.9, 100}, true},
		{[2]float64{-180, 180}, true},
	}
	for _, tc := range cases {
		a := Area{Lat: [2]float64{0, 10}, Lon: tc.lon}
		assert.Equal(t, tc.want, a.Overlaps(band), "%v", tc.lon)
	}
}

func TestNewRequest(t *testing.T) {
	area := Area{Lat: [2]float64{35, 60}, Lon: [2]float64{-10, 30}}
	req := NewRequest("2m_temperature", "-", "reanalysis", []string{"2020"}, []string{"02"}, []string{"01"}, []string{"00:00"}, "0.25/0.25", area)
	assert.Empty(t, req.PressureLevel)
	assert.Equal(t, "netcdf", req.Format)
	assert.Equal(t, [4]float64{60, -10, 35, 30}, req.Area)

	req = NewRequest("temperature", "850", "reanalysis", nil, nil, nil, nil, "1.0/1.0", GlobalArea)
	assert.Equal(t, "850", req.PressureLevel)
	assert.NotEqual(t, cacheKey("a", req), cacheKey("b", req))
}
