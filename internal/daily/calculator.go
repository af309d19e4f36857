package daily

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rtm0/era5stats/internal/cds"
	"github.com/rtm0/era5stats/internal/era5"
	"github.com/rtm0/era5stats/internal/logging"
)

// Result is a computed daily statistic.
type Result struct {
	Field    *era5.Field
	Params   Params
	Dataset  string
	Filename string
}

// Calculator runs daily statistics calculations against a Retriever.
type Calculator struct {
	Retriever cds.Retriever
	Logger    *slog.Logger
	// Concurrency bounds the retrievals in flight.
	Concurrency int
	// Now returns the current time; time.Now when nil.
	Now func() time.Time
}

// Run validates p, retrieves the data and computes the daily statistic of
// the selected month.
func (c *Calculator) Run(ctx context.Context, p Params) (*Result, error) {
	if err := p.Validate(c.now()); err != nil {
		return nil, err
	}
	plan, err := NewPlan(p)
	if err != nil {
		return nil, err
	}
	return c.Execute(ctx, plan)
}

// Execute runs a plan.
func (c *Calculator) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	start := time.Now()

	var jobs []cds.Job
	for _, ch := range plan.Chunks {
		jobs = append(jobs, ch.Month)
		if ch.Padding != nil {
			jobs = append(jobs, *ch.Padding)
		}
	}
	fields, err := cds.RetrieveAll(ctx, c.Retriever, jobs, c.Concurrency)
	if err != nil {
		return nil, err
	}

	parts := make([]*era5.Field, 0, len(plan.Chunks))
	k := 0
	for _, ch := range plan.Chunks {
		data := []*era5.Field{fields[k]}
		k++
		if ch.Padding != nil {
			if ch.Prepend {
				data = append([]*era5.Field{fields[k]}, data...)
			} else {
				data = append(data, fields[k])
			}
			k++
		}
		part, err := plan.process(data)
		if err != nil {
			return nil, errors.Wrapf(err, "processing area %s", ch.Area)
		}
		parts = append(parts, part)
	}

	out := parts[0]
	if len(parts) > 1 {
		if out, err = era5.ConcatLongitude(parts...); err != nil {
			return nil, err
		}
	}

	logging.LogOperation(c.logger(), "daily_statistics",
		slog.String("dataset", plan.Dataset),
		slog.String("variable", plan.Params.Variable),
		slog.String("statistic", plan.Statistic.String()),
		slog.Int("areas", len(plan.Chunks)),
		slog.Duration("duration", time.Since(start).Round(time.Millisecond)))

	return &Result{
		Field:    out,
		Params:   plan.Params,
		Dataset:  plan.Dataset,
		Filename: Filename(plan.Params),
	}, nil
}

// process turns the retrieved fields of one area into the daily statistic
// of the selected month.
func (pl *Plan) process(data []*era5.Field) (*era5.Field, error) {
	f, err := era5.ConcatTime(data...)
	if err != nil {
		return nil, err
	}
	if a := pl.Params.Area; !a.IsGlobal() {
		if f, err = f.SelectExtent(a.Lon[0], a.Lon[1], a.Lat[0], a.Lat[1]); err != nil {
			return nil, err
		}
	}
	if pl.Shift != 0 {
		f = f.ShiftTime(pl.Shift)
	}
	if pl.Step > 1 {
		if f, err = f.SelectStep(pl.Start(), pl.Step); err != nil {
			return nil, err
		}
	}
	return f.ResampleDaily(pl.Statistic).SelectMonth(pl.Params.Year, pl.Params.Month)
}

// Filename names the NetCDF download of a result, for example
// 2m_temperature_daily_mean_2021-07_UTC+0200.nc.
func Filename(p Params) string {
	tz := strings.ReplaceAll(p.TimeZone, ":", "")
	return fmt.Sprintf("%s_%s_%d-%02d_%s.nc", p.Variable, p.Statistic, p.Year, int(p.Month), tz)
}

func (c *Calculator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Calculator) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
