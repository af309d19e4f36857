package daily

import (
	"time"

	"github.com/rtm0/era5stats/internal/catalogue"
	"github.com/rtm0/era5stats/internal/cds"
)

// Params are the user inputs of a daily statistics calculation. String
// fields hold catalogue values.
type Params struct {
	Dataset       string     `json:"dataset"`
	ProductType   string     `json:"product_type"`
	Variable      string     `json:"variable"`
	PressureLevel string     `json:"pressure_level"`
	Statistic     string     `json:"statistic"`
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	TimeZone      string     `json:"time_zone"`
	Frequency     string     `json:"frequency"`
	Grid          string     `json:"grid"`
	Area          cds.Area   `json:"area"`
}

// DefaultParams returns the global daily mean 2m temperature of the latest
// published ERA5 month.
func DefaultParams(today time.Time) Params {
	d, _ := catalogue.LookupDataset(catalogue.SingleLevels)
	year, month := d.Latest(today)
	return Params{
		Dataset:       d.ID,
		ProductType:   "reanalysis",
		Variable:      "2m_temperature",
		PressureLevel: d.DefaultLevel,
		Statistic:     "daily_mean",
		Year:          year,
		Month:         month,
		TimeZone:      "UTC+00:00",
		Frequency:     "1-hourly",
		Grid:          d.DefaultGrid,
		Area:          cds.GlobalArea,
	}
}

// Validate checks every parameter against the catalogue and the publication
// calendar. It returns a *catalogue.ValidationError.
func (p Params) Validate(today time.Time) error {
	verr := &catalogue.ValidationError{}

	d, err := catalogue.LookupDataset(p.Dataset)
	if err != nil {
		verr.Add("dataset", "unknown dataset %q", p.Dataset)
		return verr
	}
	if !d.HasProductType(p.ProductType) {
		verr.Add("product_type", "%q is not offered for %s", p.ProductType, d.ID)
	}
	if !d.HasVariable(p.Variable) {
		verr.Add("variable", "%q is not offered for %s", p.Variable, d.ID)
	}
	if !d.HasLevel(p.PressureLevel) {
		verr.Add("pressure_level", "%q is not a level of %s", p.PressureLevel, d.ID)
	}
	if !d.HasGrid(p.Grid) {
		verr.Add("grid", "%q is not a grid of %s", p.Grid, d.ID)
	}
	if _, err := catalogue.StatisticFunction(p.Statistic); err != nil {
		verr.Add("statistic", "unknown statistic %q", p.Statistic)
	}
	if _, err := catalogue.ParseTimeZone(p.TimeZone); err != nil {
		verr.Add("time_zone", "unknown time zone %q", p.TimeZone)
	}
	if _, err := catalogue.ParseFrequency(p.Frequency); err != nil {
		verr.Add("frequency", "unknown frequency %q", p.Frequency)
	}
	if err := p.Area.Validate(); err != nil {
		verr.Add("area", "%s", err)
	} else if _, err := RetrievalAreas(p.Grid, p.Area); err != nil {
		verr.Add("area", "%s", err)
	}
	if err := d.CheckAvailable(p.Year, p.Month, today); err != nil {
		verr.Add("year", "%s", err)
	}

	return verr.Err()
}
