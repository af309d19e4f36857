package cds

import (
	"context"
	"encoding/json"

	"github.com/rtm0/era5stats/internal/era5"
)

// Request is the body of a retrieval request.
type Request struct {
	Variable      string     `json:"variable"`
	ProductType   string     `json:"product_type"`
	Year          []string   `json:"year"`
	Month         []string   `json:"month"`
	Day           []string   `json:"day"`
	Time          []string   `json:"time"`
	Grid          string     `json:"grid"`
	Area          [4]float64 `json:"area"`
	PressureLevel string     `json:"pressure_level,omitempty"`
	Format        string     `json:"format"`
}

// Retriever fetches a gridded field from a dataset.
type Retriever interface {
	Retrieve(ctx context.Context, dataset string, req Request) (*era5.Field, error)
}

// NewRequest builds a NetCDF retrieval request for area. A pressure level of
// "-" is left out of the request.
func NewRequest(variable, pressureLevel, productType string, years, months, days, times []string, grid string, area Area) Request {
	req := Request{
		Variable:    variable,
		ProductType: productType,
		Year:        years,
		Month:       months,
		Day:         days,
		Time:        times,
		Grid:        grid,
		Area:        area.Bounds(),
		Format:      "netcdf",
	}
	if pressureLevel != "-" {
		req.PressureLevel = pressureLevel
	}
	return req
}

// cacheKey identifies a retrieval of req from dataset.
func cacheKey(dataset string, req Request) string {
	b, _ := json.Marshal(req)
	return dataset + " " + string(b)
}
