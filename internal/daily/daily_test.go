package daily

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtm0/era5stats/internal/catalogue"
	"github.com/rtm0/era5stats/internal/cds"
	"github.com/rtm0/era5stats/internal/era5"
)

var today = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

// fakeRetriever builds coarse synthetic fields for any request. Every cell
// holds day*100 + hour of the UTC timestamp.
type fakeRetriever struct {
	mu   sync.Mutex
	jobs []cds.Job
	err  error
}

func (r *fakeRetriever) Retrieve(_ context.Context, dataset string, req cds.Request) (*era5.Field, error) {
	r.mu.Lock()
	r.jobs = append(r.jobs, cds.Job{Dataset: dataset, Request: req})
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	year, _ := strconv.Atoi(req.Year[0])
	var times []time.Time
	for _, m := range req.Month {
		month, _ := strconv.Atoi(m)
		for _, d := range req.Day {
			day, _ := strconv.Atoi(d)
			date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			if date.Month() != time.Month(month) {
				continue
			}
			for _, hh := range req.Time {
				hour, _ := strconv.Atoi(hh[:2])
				times = append(times, date.Add(time.Duration(hour)*time.Hour))
			}
		}
	}

	north, west, south, east := req.Area[0], req.Area[1], req.Area[2], req.Area[3]
	var lats, lons []float64
	for lat := north; lat >= south; lat -= 30 {
		lats = append(lats, lat)
	}
	for lon := west; lon <= east; lon += 10 {
		lons = append(lons, lon)
	}

	f := era5.NewField("t2m", times, lats, lons)
	n := f.GridSize()
	for i, t := range times {
		for c := 0; c < n; c++ {
			f.Values[i*n+c] = float64(t.Day()*100 + t.Hour())
		}
	}
	return f, nil
}

func (r *fakeRetriever) recorded() []cds.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]cds.Job(nil), r.jobs...)
}

func newCalculator(r cds.Retriever) *Calculator {
	return &Calculator{
		Retriever:   r,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Concurrency: 2,
		Now:         func() time.Time { return today },
	}
}

func february(mod func(*Params)) Params {
	p := DefaultParams(today)
	p.Year, p.Month = 2021, time.February
	p.Grid = "1.0/1.0"
	if mod != nil {
		mod(&p)
	}
	return p
}

func TestRunUTC(t *testing.T) {
	r := &fakeRetriever{}
	res, err := newCalculator(r).Run(context.Background(), february(nil))
	require.NoError(t, err)

	jobs := r.recorded()
	require.Len(t, jobs, 1)
	assert.Equal(t, catalogue.SingleLevels, jobs[0].Dataset)
	assert.Equal(t, []string{"2021"}, jobs[0].Request.Year)
	assert.Equal(t, []string{"02"}, jobs[0].Request.Month)
	assert.Len(t, jobs[0].Request.Day, 31)
	assert.Len(t, jobs[0].Request.Time, 24)
	assert.Equal(t, [4]float64{90, -180, -90, 180}, jobs[0].Request.Area)
	assert.Empty(t, jobs[0].Request.PressureLevel)

	f := res.Field
	require.Len(t, f.Times, 28)
	assert.Equal(t, time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), f.Times[0])
	assert.Len(t, f.Latitudes, 7)
	assert.Len(t, f.Longitudes, 37)
	assert.InDelta(t, 111.5, f.At(0, 0, 0), 1e-9)
	assert.InDelta(t, 2811.5, f.At(27, 6, 36), 1e-9)

	assert.Equal(t, catalogue.SingleLevels, res.Dataset)
	assert.Equal(t, "2m_temperature_daily_mean_2021-02_UTC+0000.nc", res.Filename)
}

func TestRunPositiveTimeZone(t *testing.T) {
	r := &fakeRetriever{}
	res, err := newCalculator(r).Run(context.Background(), february(func(p *Params) {
		p.TimeZone = "UTC+02:00"
	}))
	require.NoError(t, err)

	jobs := r.recorded()
	require.Len(t, jobs, 2)
	var padding cds.Job
	for _, j := range jobs {
		if len(j.Request.Day) == 1 {
			padding = j
		}
	}
	assert.Equal(t, []string{"2021"}, padding.Request.Year)
	assert.Equal(t, []string{"01"}, padding.Request.Month)
	assert.Equal(t, []string{"31"}, padding.Request.Day)

	f := res.Field
	require.Len(t, f.Times, 28)
	// 1 February local starts at 31 January 22:00 UTC.
	assert.InDelta(t, (3122.0+3123+2431)/24, f.At(0, 0, 0), 1e-9)
	assert.InDelta(t, (122.0+123+4631)/24, f.At(1, 0, 0), 1e-9)
}

func TestRunAccumulatedNegativeShift(t *testing.T) {
	r := &fakeRetriever{}
	res, err := newCalculator(r).Run(context.Background(), february(func(p *Params) {
		p.Variable = "total_precipitation"
	}))
	require.NoError(t, err)

	jobs := r.recorded()
	require.Len(t, jobs, 2)
	var padding cds.Job
	for _, j := range jobs {
		if len(j.Request.Day) == 1 {
			padding = j
		}
	}
	assert.Equal(t, []string{"03"}, padding.Request.Month)
	assert.Equal(t, []string{"01"}, padding.Request.Day)

	f := res.Field
	require.Len(t, f.Times, 28)
	// The value stamped 00:00 belongs to the previous day.
	assert.InDelta(t, (2576.0+200)/24, f.At(0, 0, 0), 1e-9)
	assert.InDelta(t, 2699.0, f.At(27, 0, 0), 1e-9)
}

func TestRunFrequencyAndStatistics(t *testing.T) {
	cases := []struct {
		statistic string
		frequency string
		want      float64
	}{
		{"daily_maximum", "6-hourly", 318},
		{"daily_minimum", "3-hourly", 300},
		{"daily_mid_range", "1-hourly", 311.5},
		{"daily_mean", "6-hourly", 309},
	}
	for _, tc := range cases {
		t.Run(tc.statistic+" "+tc.frequency, func(t *testing.T) {
			res, err := newCalculator(&fakeRetriever{}).Run(context.Background(), february(func(p *Params) {
				p.Statistic = tc.statistic
				p.Frequency = tc.frequency
			}))
			require.NoError(t, err)
			assert.InDelta(t, tc.want, res.Field.At(2, 3, 4), 1e-9)
		})
	}
}

func TestRunHighResolutionBands(t *testing.T) {
	r := &fakeRetriever{}
	res, err := newCalculator(r).Run(context.Background(), february(func(p *Params) {
		p.Dataset = catalogue.Land
		p.Grid = catalogue.HighResolutionGrid
		p.Area = cds.Area{Lat: [2]float64{0, 60}, Lon: [2]float64{-100, 40}}
	}))
	require.NoError(t, err)

	jobs := r.recorded()
	require.Len(t, jobs, 3)
	for _, j := range jobs {
		assert.Equal(t, catalogue.Land, j.Dataset)
		assert.Equal(t, catalogue.HighResolutionGrid, j.Request.Grid)
	}

	f := res.Field
	assert.Equal(t, []float64{60, 30, 0}, f.Latitudes)
	assert.Equal(t, []float64{-100, -90, -80, -70, -60, -50, -40, -30, -20, -10, 0, 10, 20, 30, 40}, f.Longitudes)
	assert.Len(t, f.Times, 28)
}

func TestRunCropsArea(t *testing.T) {
	res, err := newCalculator(&fakeRetriever{}).Run(context.Background(), february(func(p *Params) {
		p.Area = cds.Area{Lat: [2]float64{-30, 30}, Lon: [2]float64{5, 35}}
	}))
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 0, -30}, res.Field.Latitudes)
	assert.Equal(t, []float64{10, 20, 30}, res.Field.Longitudes)
}

func TestRunValidation(t *testing.T) {
	r := &fakeRetriever{}
	_, err := newCalculator(r).Run(context.Background(), february(func(p *Params) {
		p.Variable = "warp_speed"
		p.TimeZone = "UTC+20:00"
		p.Year = 2030
	}))
	var verr *catalogue.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "variable")
	assert.Contains(t, verr.Fields, "time_zone")
	assert.Contains(t, verr.Fields, "year")
	assert.NotContains(t, verr.Fields, "grid")
	assert.Empty(t, r.recorded())
}

func TestRunRetrievalError(t *testing.T) {
	boom := errors.New("service unavailable")
	_, err := newCalculator(&fakeRetriever{err: boom}).Run(context.Background(), february(nil))
	assert.ErrorIs(t, err, boom)
}

func TestValidateDefaults(t *testing.T) {
	p := DefaultParams(today)
	assert.NoError(t, p.Validate(today))
	assert.Equal(t, 2024, p.Year)
	assert.Equal(t, time.May, p.Month)

	p.Dataset = "reanalysis-era6"
	var verr *catalogue.ValidationError
	require.ErrorAs(t, p.Validate(today), &verr)
	assert.Equal(t, []string{`unknown dataset "reanalysis-era6"`}, verr.Fields["dataset"])
	assert.Contains(t, verr.Error(), "dataset: unknown dataset")

	p = DefaultParams(today)
	p.Dataset = catalogue.PressureLevels
	require.ErrorAs(t, p.Validate(today), &verr)
	assert.Contains(t, verr.Fields, "pressure_level")
	p.PressureLevel = "500"
	p.Variable = "temperature"
	assert.NoError(t, p.Validate(today))
}
