package main

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rtm0/era5stats/internal/era5"
	"github.com/rtm0/era5stats/internal/vm"
)

// Command-line flags
var (
	exportFile          string
	exportVariable      string
	exportConcurrency   int
	exportRecsPerInsert int
	exportVMInsertURL   string
	exportMetricPrefix  string
)

var cmdExport = &Command{
	UsageLine: "export -file path [-variable name] [-vmInsertUrl url] [-metricPrefix prefix]",
	Short:     "insert a NetCDF file into Victoria Metrics",
	Long: `
Export reads a NetCDF file, such as the output of 'era5stats daily', one
timestamp at a time and inserts every grid cell into Victoria Metrics as the
metric <metricPrefix>_<variable> with the labels la and lo. Missing values
are skipped.

The protocol follows the path of -vmInsertUrl: /write, /api/v2/write,
/influx/write and /influx/api/v2/write use the InfluxDB line protocol,
/api/v1/import/csv uses the CSV import.
`,
}

func init() {
	cmdExport.Run = runExport // break init cycle
	fs := &cmdExport.Flag
	fs.StringVar(&exportFile, "file", "", "path to an ERA5 file in NetCDF format")
	fs.StringVar(&exportVariable, "variable", "", "variable to insert; empty selects the single data variable")
	fs.IntVar(&exportConcurrency, "concurrency", runtime.NumCPU(), "number of concurrent requests to Victoria Metrics")
	fs.IntVar(&exportRecsPerInsert, "recsPerInsert", 500, "number of records sent to VM in one batch")
	fs.StringVar(&exportVMInsertURL, "vmInsertUrl", "http://localhost:8428/write", "Victoria Metrics insert API URL. Default: InfluxDB line protocol v2")
	fs.StringVar(&exportMetricPrefix, "metricPrefix", "era5", "prefix of the inserted metric")
}

func runExport(cmd *Command, args []string) {
	if len(args) != 0 || exportFile == "" || exportConcurrency < 1 || exportRecsPerInsert < 1 {
		cmd.Usage()
	}

	s, err := era5.NewScanner(exportFile, exportVariable)
	if err != nil {
		fatal("Could not create an ERA5 scanner", err)
	}
	atexit(s.Close)
	logger.Info("ERA5 summary", s.Summary()...)

	vmCli, err := vm.NewClient(logger, exportVMInsertURL, exportConcurrency, exportMetricPrefix, s.Variable())
	if err != nil {
		fatal("Could not create new VM client", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	atexit(cancel)
	defer cancel()

	recsCh := make(chan []era5.Record)
	progressCh := make(chan int)
	var failed atomic.Int64
	var wg sync.WaitGroup
	for range exportConcurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for recs := range recsCh {
				n := len(recs)
				for i := 0; i < n; i += exportRecsPerInsert {
					limit := min(i+exportRecsPerInsert, n)
					if err := vmCli.Insert(ctx, recs[i:limit]); err != nil {
						logger.Error("Insert failed", "metric", vmCli.Metric(), "recs", limit-i, "err", err)
						failed.Add(int64(limit - i))
					}
				}
				progressCh <- n
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		var inserted, total float64
		total = float64(s.TotalRecCount())
		start := time.Now()
		for n := range progressCh {
			inserted += float64(n)
			percent := fmt.Sprintf("%.2f%%", 100*inserted/total)
			duration := time.Since(start).Round(1 * time.Second)
			logger.Info("progress", "inserted", percent, "in", duration)
		}
	}()
	for s.Scan() {
		recsCh <- s.Records()
	}
	close(recsCh)
	wg.Wait()
	close(progressCh)
	<-done

	if err := s.Err(); err != nil {
		fatal("Scanning failed", err)
	}
	if n := failed.Load(); n > 0 {
		logger.Error("Some records were not inserted", "metric", vmCli.Metric(), "failed", n)
		setExitStatus(1)
	}
}
