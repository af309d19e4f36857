package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/rtm0/era5stats/internal/catalogue"
	"github.com/rtm0/era5stats/internal/cds"
	"github.com/rtm0/era5stats/internal/daily"
	"github.com/rtm0/era5stats/internal/era5"
	"github.com/rtm0/era5stats/internal/logging"
)

// Command-line flags
var (
	dailyParams    = daily.DefaultParams(time.Now())
	dailyYear      int
	dailyMonth     int
	dailyArea      string
	dailyOut       string
	dailyDryRun    bool
	dailyRetrieval *retrievalFlags
)

var cmdDaily = &Command{
	UsageLine: "daily [-dataset id] [-variable name] [-statistic name] [-year yyyy] [-month mm] [-tz UTC+hh:mm] [-area n,w,s,e] [-out file] [-dry-run]",
	Short:     "compute a daily statistic of one month",
	Long: `
Daily retrieves one month of hourly ERA5 data from the Climate Data Store and
computes a daily statistic for every day of the month in the requested time
zone.

When the time zone is not UTC, an extra day is retrieved from the adjacent
month so that every local day is complete. Accumulated and mean rate
variables describe the hour preceding their timestamp and are shifted by one
more hour. At 0.1 degree resolution the globe is retrieved in longitude
bands which are computed independently and joined afterwards.

The result is written to -out as NetCDF, or as CSV when the file name ends in
.csv. Without -out the file is named after the parameters, for example
2m_temperature_daily_mean_2024-02_UTC+0000.nc, in the current directory.

The -pressure-level, -grid, -year and -month flags default to the dataset's
default level, its default grid and its latest published month.

With -dry-run the retrievals and processing steps are printed instead of
being run. Run 'era5stats catalogue' to list the accepted values.
`,
}

func init() {
	cmdDaily.Run = runDaily // break init cycle
	fs := &cmdDaily.Flag
	p := &dailyParams
	fs.StringVar(&p.Dataset, "dataset", p.Dataset, "dataset identifier")
	fs.StringVar(&p.ProductType, "product-type", p.ProductType, "product type")
	fs.StringVar(&p.Variable, "variable", p.Variable, "variable to retrieve")
	fs.StringVar(&p.PressureLevel, "pressure-level", "", "pressure level in hPa")
	fs.StringVar(&p.Statistic, "statistic", p.Statistic, "daily statistic (daily_mean, daily_minimum, daily_maximum, daily_mid_range)")
	fs.IntVar(&dailyYear, "year", 0, "year")
	fs.IntVar(&dailyMonth, "month", 0, "month, 1 to 12")
	fs.StringVar(&p.TimeZone, "tz", p.TimeZone, "time zone of the days, UTC-12:00 to UTC+14:00")
	fs.StringVar(&p.Frequency, "frequency", p.Frequency, "sampling frequency (1-hourly, 3-hourly, 6-hourly)")
	fs.StringVar(&p.Grid, "grid", "", "grid resolution, for example 0.25/0.25")
	fs.StringVar(&dailyArea, "area", "", "sub-region as north,west,south,east; empty means global")
	fs.StringVar(&dailyOut, "out", "", "output file, .nc or .csv")
	fs.BoolVar(&dailyDryRun, "dry-run", false, "print the plan without retrieving anything")
	dailyRetrieval = addRetrievalFlags(fs)
}

func runDaily(cmd *Command, args []string) {
	if len(args) != 0 {
		cmd.Usage()
	}
	now := time.Now()
	p := dailyParams

	if d, err := catalogue.LookupDataset(p.Dataset); err == nil {
		p.Year, p.Month = d.Latest(now)
		if p.PressureLevel == "" {
			p.PressureLevel = d.DefaultLevel
		}
		if p.Grid == "" {
			p.Grid = d.DefaultGrid
		}
	}
	if dailyYear != 0 {
		p.Year = dailyYear
	}
	if dailyMonth != 0 {
		p.Month = time.Month(dailyMonth)
	}
	if dailyArea != "" {
		area, err := cds.ParseArea(dailyArea)
		if err != nil {
			fatal("Invalid area", err)
		}
		p.Area = area
	}

	if err := p.Validate(now); err != nil {
		fatal("Invalid parameters", err)
	}

	if dailyDryRun {
		plan, err := daily.NewPlan(p)
		if err != nil {
			fatal("Could not plan the calculation", err)
		}
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(os.Stdout, plan)
		return
	}

	out := dailyOut
	if out == "" {
		out = daily.Filename(p)
	}

	ctx, cancel := context.WithCancel(context.Background())
	atexit(cancel)
	defer cancel()

	calc := &daily.Calculator{
		Retriever:   dailyRetrieval.client(),
		Logger:      logger,
		Concurrency: dailyRetrieval.concurrency,
	}
	res, err := calc.Run(ctx, p)
	if err != nil {
		fatal("Daily statistics calculation failed", err)
	}
	if err := writeField(out, res.Field); err != nil {
		fatal("Could not write the result", err)
	}
	logger.Info("Daily statistics written", "file", out, "dataset", res.Dataset,
		"days", len(res.Field.Times), "lats", len(res.Field.Latitudes), "lons", len(res.Field.Longitudes))
}

// writeField writes f as CSV when path ends in .csv and as NetCDF otherwise.
func writeField(path string, f *era5.Field) error {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return era5.WriteFile(path, f)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(out, logger, "closing "+path)
	return era5.WriteCSV(out, f)
}
