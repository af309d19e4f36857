// Package timeseries extracts daily mean time series of ERA5 single level
// variables at a point.
package timeseries

import (
	"context"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart"

	"github.com/rtm0/era5stats/internal/catalogue"
	"github.com/rtm0/era5stats/internal/cds"
	"github.com/rtm0/era5stats/internal/era5"
	"github.com/rtm0/era5stats/internal/logging"
)

const (
	grid = "0.25/0.25"
	// DefaultYears is the length of the default series.
	DefaultYears = 10
)

// resolution is the cell size of grid in degrees.
var resolution, _ = catalogue.ParseGrid(grid)

// Synoptic hours retrieved for every day.
var times = []string{"00:00", "06:00", "12:00", "18:00"}

// Params select a series.
type Params struct {
	Variable  string  `json:"variable"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	StartYear int     `json:"start_year"`
	Years     int     `json:"years"`
}

// DefaultParams returns the 2m temperature of the last complete decade at
// the given location.
func DefaultParams(lat, lon float64, today time.Time) Params {
	last := lastCompleteYear(today)
	return Params{
		Variable:  "2m_temperature",
		Latitude:  lat,
		Longitude: lon,
		StartYear: last - DefaultYears + 1,
		Years:     DefaultYears,
	}
}

// Validate returns a *catalogue.ValidationError when p cannot be served.
func (p Params) Validate(today time.Time) error {
	verr := &catalogue.ValidationError{}
	d, _ := catalogue.LookupDataset(catalogue.SingleLevels)
	if !d.HasVariable(p.Variable) {
		verr.Add("variable", "%q is not offered for %s", p.Variable, d.ID)
	}
	if !(p.Latitude >= -90 && p.Latitude <= 90) {
		verr.Add("lat", "latitude must be between -90 and 90")
	}
	if !(p.Longitude >= -180 && p.Longitude <= 180) {
		verr.Add("lon", "longitude must be between -180 and 180")
	}

	// Both bounds are checked before they are added so the sum cannot
	// overflow.
	last := lastCompleteYear(today)
	yearsOK, startOK := true, true
	if maxYears := last - catalogue.FirstYear + 1; p.Years < 1 || p.Years > maxYears {
		verr.Add("years", "years must be between 1 and %d", maxYears)
		yearsOK = false
	}
	if p.StartYear < catalogue.FirstYear || p.StartYear > last {
		verr.Add("start_year", "start year must be between %d and %d", catalogue.FirstYear, last)
		startOK = false
	}
	if yearsOK && startOK && p.StartYear+p.Years-1 > last {
		verr.Add("start_year", "the last complete year is %d", last)
	}
	return verr.Err()
}

// Area is the box of one grid cell around the point.
func (p Params) Area() cds.Area {
	h := resolution / 2
	return cds.Area{
		Lat: [2]float64{math.Max(p.Latitude-h, -90), math.Min(p.Latitude+h, 90)},
		Lon: [2]float64{math.Max(p.Longitude-h, -180), math.Min(p.Longitude+h, 180)},
	}
}

// Jobs returns one retrieval per year.
func (p Params) Jobs() []cds.Job {
	d, _ := catalogue.LookupDataset(catalogue.SingleLevels)
	months := make([]string, len(catalogue.Months))
	for i, m := range catalogue.Months {
		months[i] = m.Value
	}
	jobs := make([]cds.Job, 0, p.Years)
	for y := p.StartYear; y < p.StartYear+p.Years; y++ {
		jobs = append(jobs, cds.Job{
			Dataset: d.ForYear(y),
			Request: cds.NewRequest(p.Variable, catalogue.NoLevel, "reanalysis",
				[]string{strconv.Itoa(y)}, months, catalogue.Days, times, grid, p.Area()),
		})
	}
	return jobs
}

// Series is a daily mean series at one grid cell.
type Series struct {
	Params Params
	Field  *era5.Field
}

// Service retrieves series.
type Service struct {
	Retriever   cds.Retriever
	Logger      *slog.Logger
	Concurrency int
	Now         func() time.Time
}

// Run validates p and computes its daily mean series.
func (s *Service) Run(ctx context.Context, p Params) (*Series, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if err := p.Validate(now()); err != nil {
		return nil, err
	}

	start := time.Now()
	fields, err := cds.RetrieveAll(ctx, s.Retriever, p.Jobs(), s.Concurrency)
	if err != nil {
		return nil, err
	}
	f, err := era5.ConcatTime(fields...)
	if err != nil {
		return nil, err
	}
	if f, err = f.ExtractPoint(p.Latitude, p.Longitude); err != nil {
		return nil, err
	}

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logging.LogOperation(logger, "point_series",
		slog.String("variable", p.Variable),
		slog.Float64("lat", f.Latitudes[0]),
		slog.Float64("lon", f.Longitudes[0]),
		slog.Int("years", p.Years),
		slog.Duration("duration", time.Since(start).Round(time.Millisecond)))

	return &Series{Params: p, Field: f.ResampleDaily(era5.Mean)}, nil
}

// Title describes the series.
func (s *Series) Title() string {
	name := s.Field.LongName
	if name == "" {
		name = s.Params.Variable
	}
	return name + " daily mean at " +
		strconv.FormatFloat(s.Field.Latitudes[0], 'f', -1, 64) + "N " +
		strconv.FormatFloat(s.Field.Longitudes[0], 'f', -1, 64) + "E"
}

// RenderPNG draws the series as a line chart.
func (s *Series) RenderPNG(w io.Writer) error {
	var (
		x []time.Time
		y []float64
	)
	for i, t := range s.Field.Times {
		if v := s.Field.Values[i]; !math.IsNaN(v) {
			x = append(x, t)
			y = append(y, v)
		}
	}
	if len(x) < 2 {
		return errors.Wrap(era5.ErrEmptySelection, "too few values to plot")
	}

	graph := chart.Chart{
		Title:      s.Title(),
		TitleStyle: chart.Style{Show: true},
		XAxis: chart.XAxis{
			Style: chart.Style{
				Show: true,
			},
		},
		YAxis: chart.YAxis{
			Name:      s.Field.Units,
			NameStyle: chart.Style{Show: true},
			Style: chart.Style{
				Show: true,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    s.Params.Variable,
				XValues: x,
				YValues: y,
			},
		},
	}
	return errors.Wrap(graph.Render(chart.PNG, w), "rendering chart")
}

// WriteCSV writes the series as CSV.
func (s *Series) WriteCSV(w io.Writer) error {
	return era5.WriteCSV(w, s.Field)
}

func lastCompleteYear(today time.Time) int {
	d, _ := catalogue.LookupDataset(catalogue.SingleLevels)
	year, month := d.Latest(today)
	if month != time.December {
		year--
	}
	return year
}
