// Package daily computes daily statistics of hourly ERA5 fields for one
// month in a chosen time zone.
package daily

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rtm0/era5stats/internal/catalogue"
	"github.com/rtm0/era5stats/internal/cds"
	"github.com/rtm0/era5stats/internal/era5"
)

// ErrEmptyArea is returned when the area overlaps none of the retrieval
// bands.
var ErrEmptyArea = errors.New("area overlaps no retrieval band")

// First day of the regular ERA5 datasets; earlier data comes from the back
// extension.
var regularStart = time.Date(catalogue.BackExtensionEnd+1, time.January, 1, 0, 0, 0, 0, time.UTC)

// Longitude bands retrieved separately on the high resolution grid.
var bands = []cds.Area{
	{Lat: [2]float64{-90, 90}, Lon: [2]float64{-180, -90.05}},
	{Lat: [2]float64{-90, 90}, Lon: [2]float64{-90, -0.05}},
	{Lat: [2]float64{-90, 90}, Lon: [2]float64{0, 89.95}},
	{Lat: [2]float64{-90, 90}, Lon: [2]float64{90, 180}},
}

// ResolveDataset returns the dataset identifier to retrieve year from.
// Years before 1979 are served by the back extension.
func ResolveDataset(dataset string, year int) string {
	d, err := catalogue.LookupDataset(dataset)
	if err != nil {
		return dataset
	}
	return d.ForYear(year)
}

// EffectiveShift returns the number of hours timestamps are moved by. The
// samples of hour-preceding fields belong to the previous hour, so they
// move one hour less.
func EffectiveShift(variable string, tzHours int) int {
	if catalogue.IsHourPrecedingField(variable) {
		return tzHours - 1
	}
	return tzHours
}

// RetrievalAreas returns the areas to retrieve for grid. The high
// resolution grid is split into the longitude bands overlapping area, any
// other grid is retrieved globally.
func RetrievalAreas(grid string, area cds.Area) ([]cds.Area, error) {
	if grid != catalogue.HighResolutionGrid {
		return []cds.Area{cds.GlobalArea}, nil
	}
	var areas []cds.Area
	for _, b := range bands {
		if area.Overlaps(b) {
			areas = append(areas, b)
		}
	}
	if len(areas) == 0 {
		return nil, errors.Wrapf(ErrEmptyArea, "area %s", area)
	}
	return areas, nil
}

// PaddingDay returns the extra day needed once timestamps are shifted by
// shift hours, and the dataset to retrieve it from. A negative shift needs
// the first day of the next month, appended; a positive shift needs the last
// day of the previous month, prepended. ok is false for a zero shift.
func PaddingDay(dataset string, year int, month time.Month, shift int) (day time.Time, from string, prepend, ok bool) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	switch {
	case shift < 0:
		day = first.AddDate(0, 1, 0)
		if !day.Before(regularStart) {
			dataset = strings.TrimSuffix(dataset, catalogue.BackExtensionSuffix)
		}
		return day, dataset, false, true
	case shift > 0:
		day = first.AddDate(0, 0, -1)
		if d, err := catalogue.LookupDataset(dataset); err == nil && day.Before(regularStart) {
			dataset = d.ForYear(day.Year())
		}
		return day, dataset, true, true
	default:
		return time.Time{}, dataset, false, false
	}
}

// Chunk is the work for one retrieval area: the month itself and the
// optional padding day.
type Chunk struct {
	Area    cds.Area
	Month   cds.Job
	Padding *cds.Job
	Prepend bool
}

// Plan is a validated calculation ready to run.
type Plan struct {
	Params    Params
	Dataset   string
	Shift     int
	Step      int
	Statistic era5.Statistic
	Chunks    []Chunk
}

// NewPlan resolves p into the retrievals and processing steps it needs. p
// must be valid.
func NewPlan(p Params) (*Plan, error) {
	tz, err := catalogue.ParseTimeZone(p.TimeZone)
	if err != nil {
		return nil, err
	}
	step, err := catalogue.ParseFrequency(p.Frequency)
	if err != nil {
		return nil, err
	}
	fn, err := catalogue.StatisticFunction(p.Statistic)
	if err != nil {
		return nil, err
	}
	stat, err := era5.ParseStatistic(fn)
	if err != nil {
		return nil, err
	}
	areas, err := RetrievalAreas(p.Grid, p.Area)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Params:    p,
		Dataset:   ResolveDataset(p.Dataset, p.Year),
		Shift:     EffectiveShift(p.Variable, tz),
		Step:      step,
		Statistic: stat,
	}
	day, padFrom, prepend, pad := PaddingDay(plan.Dataset, p.Year, p.Month, plan.Shift)
	for _, area := range areas {
		c := Chunk{
			Area: area,
			Month: cds.Job{
				Dataset: plan.Dataset,
				Request: p.request([]string{fmt.Sprint(p.Year)}, []string{twoDigits(int(p.Month))}, catalogue.Days, area),
			},
			Prepend: prepend,
		}
		if pad {
			c.Padding = &cds.Job{
				Dataset: padFrom,
				Request: p.request([]string{fmt.Sprint(day.Year())}, []string{twoDigits(int(day.Month()))},
					[]string{twoDigits(day.Day())}, area),
			}
		}
		plan.Chunks = append(plan.Chunks, c)
	}
	return plan, nil
}

// Start is the first timestamp of the selected month.
func (pl *Plan) Start() time.Time {
	return time.Date(pl.Params.Year, pl.Params.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (p Params) request(years, months, days []string, area cds.Area) cds.Request {
	return cds.NewRequest(p.Variable, p.PressureLevel, p.ProductType, years, months, days,
		catalogue.Times, p.Grid, area)
}

func twoDigits(n int) string {
	return fmt.Sprintf("%02d", n)
}
