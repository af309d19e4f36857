package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rtm0/era5stats/internal/logging"
	"github.com/rtm0/era5stats/internal/timeseries"
)

// Command-line flags
var (
	pointLat       float64
	pointLon       float64
	pointVariable  string
	pointStartYear int
	pointYears     int
	pointOut       string
	pointRetrieval *retrievalFlags
)

var cmdPoint = &Command{
	UsageLine: "point -lat degrees -lon degrees [-variable name] [-start-year yyyy] [-years n] [-out file]",
	Short:     "extract a daily mean time series at a point",
	Long: `
Point retrieves ERA5 single level data at 00, 06, 12 and 18 UTC around a
location, one retrieval per year, and reduces it to the daily mean of the
nearest 0.25 degree grid cell.

The series covers -years years ending with the last complete year unless
-start-year is given. It is drawn as a PNG chart, or written as CSV when -out
ends in .csv. Without -out the chart is written to <variable>_<first>-<last>.png.
`,
}

func init() {
	cmdPoint.Run = runPoint // break init cycle
	fs := &cmdPoint.Flag
	fs.Float64Var(&pointLat, "lat", math.NaN(), "latitude in degrees north")
	fs.Float64Var(&pointLon, "lon", math.NaN(), "longitude in degrees east")
	fs.StringVar(&pointVariable, "variable", "2m_temperature", "single level variable")
	fs.IntVar(&pointStartYear, "start-year", 0, "first year of the series")
	fs.IntVar(&pointYears, "years", timeseries.DefaultYears, "number of years")
	fs.StringVar(&pointOut, "out", "", "output file, .png or .csv")
	pointRetrieval = addRetrievalFlags(fs)
}

func runPoint(cmd *Command, args []string) {
	if len(args) != 0 || math.IsNaN(pointLat) || math.IsNaN(pointLon) {
		cmd.Usage()
	}
	now := time.Now()

	p := timeseries.DefaultParams(pointLat, pointLon, now)
	p.Variable = pointVariable
	if pointYears != p.Years {
		last := p.StartYear + p.Years - 1
		p.Years = pointYears
		p.StartYear = last - p.Years + 1
	}
	if pointStartYear != 0 {
		p.StartYear = pointStartYear
	}
	if err := p.Validate(now); err != nil {
		fatal("Invalid parameters", err)
	}

	out := pointOut
	if out == "" {
		out = fmt.Sprintf("%s_%d-%d.png", p.Variable, p.StartYear, p.StartYear+p.Years-1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	atexit(cancel)
	defer cancel()

	svc := &timeseries.Service{
		Retriever:   pointRetrieval.client(),
		Logger:      logger,
		Concurrency: pointRetrieval.concurrency,
	}
	series, err := svc.Run(ctx, p)
	if err != nil {
		fatal("Point series extraction failed", err)
	}

	f, err := os.Create(out)
	if err != nil {
		fatal("Could not create output", err)
	}
	defer logging.SafeCloseWithLogging(f, logger, "closing "+out)
	if strings.EqualFold(filepath.Ext(out), ".csv") {
		err = series.WriteCSV(f)
	} else {
		err = series.RenderPNG(f)
	}
	if err != nil {
		fatal("Could not write the series", err)
	}
	logger.Info("Point series written", "file", out, "title", series.Title(), "days", len(series.Field.Times))
}
