package server

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rtm0/era5stats/internal/catalogue"
	"github.com/rtm0/era5stats/internal/cds"
	"github.com/rtm0/era5stats/internal/daily"
	"github.com/rtm0/era5stats/internal/era5"
	"github.com/rtm0/era5stats/internal/logging"
	"github.com/rtm0/era5stats/internal/timeseries"
)

func (s *Server) healthzHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) catalogueHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, catalogue.Describe(s.now()))
}

func (s *Server) dailyStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	p, format, verr := dailyParams(r.URL.Query(), s.now())
	if verr != nil {
		s.validationErrorResponse(w, r, verr.Fields)
		return
	}

	res, err := s.calculator.Run(r.Context(), p)
	if err != nil {
		s.failureResponse(w, r, err)
		return
	}

	if format == "csv" {
		attachment(w, "text/csv", strings.TrimSuffix(res.Filename, ".nc")+".csv")
		if err := era5.WriteCSV(w, res.Field); err != nil {
			logging.LogError(logging.FromContext(r.Context()), "failed to write csv", err)
		}
		return
	}
	if err := s.sendNetCDF(w, res); err != nil {
		s.failureResponse(w, r, err)
	}
}

func (s *Server) sendNetCDF(w http.ResponseWriter, res *daily.Result) error {
	dir, err := os.MkdirTemp(s.cfg.WorkDir, "era5stats-")
	if err != nil {
		return errors.Wrap(err, "creating work directory")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, res.Filename)
	if err := era5.WriteFile(path, res.Field); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer logging.SafeCloseWithLogging(f, s.logger, "send netcdf")

	attachment(w, "application/x-netcdf", res.Filename)
	if _, err := io.Copy(w, f); err != nil {
		logging.LogError(s.logger, "failed to send netcdf", err)
	}
	return nil
}

func (s *Server) pointSeriesHandler(w http.ResponseWriter, r *http.Request) {
	p, format, verr := pointParams(r.URL.Query(), s.now())
	if verr != nil {
		s.validationErrorResponse(w, r, verr.Fields)
		return
	}

	series, err := s.series.Run(r.Context(), p)
	if err != nil {
		s.failureResponse(w, r, err)
		return
	}

	name := fmt.Sprintf("%s_%d-%d", p.Variable, p.StartYear, p.StartYear+p.Years-1)
	if format == "csv" {
		attachment(w, "text/csv", name+".csv")
		err = series.WriteCSV(w)
	} else {
		w.Header().Set("Content-Type", "image/png")
		err = series.RenderPNG(w)
	}
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to write point series", err)
	}
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// dailyParams overrides the defaults with the query parameters.
func dailyParams(q url.Values, now time.Time) (daily.Params, string, *catalogue.ValidationError) {
	p := daily.DefaultParams(now)
	verr := &catalogue.ValidationError{}

	for key, dst := range map[string]*string{
		"dataset":        &p.Dataset,
		"product_type":   &p.ProductType,
		"variable":       &p.Variable,
		"pressure_level": &p.PressureLevel,
		"statistic":      &p.Statistic,
		"time_zone":      &p.TimeZone,
		"frequency":      &p.Frequency,
		"grid":           &p.Grid,
	} {
		if v := q.Get(key); v != "" {
			*dst = v
		}
	}
	// Levels, grids and the latest month default per dataset.
	if d, err := catalogue.LookupDataset(p.Dataset); err == nil {
		p.Year, p.Month = d.Latest(now)
		if q.Get("pressure_level") == "" {
			p.PressureLevel = d.DefaultLevel
		}
		if q.Get("grid") == "" {
			p.Grid = d.DefaultGrid
		}
	}
	if v := q.Get("year"); v != "" {
		p.Year = intParam(verr, "year", v)
	}
	if v := q.Get("month"); v != "" {
		p.Month = time.Month(intParam(verr, "month", v))
	}
	if v := q.Get("area"); v != "" {
		area, err := cds.ParseArea(v)
		if err != nil {
			verr.Add("area", "%s", err)
		}
		p.Area = area
	}

	format := q.Get("format")
	switch format {
	case "":
		format = "netcdf"
	case "netcdf", "csv":
	default:
		verr.Add("format", "format must be netcdf or csv")
	}
	if len(verr.Fields) > 0 {
		return p, format, verr
	}
	return p, format, nil
}

// pointParams reads the point series query. lat and lon are required.
func pointParams(q url.Values, now time.Time) (timeseries.Params, string, *catalogue.ValidationError) {
	verr := &catalogue.ValidationError{}
	lat := floatParam(verr, "lat", q.Get("lat"))
	lon := floatParam(verr, "lon", q.Get("lon"))
	p := timeseries.DefaultParams(lat, lon, now)

	if v := q.Get("variable"); v != "" {
		p.Variable = v
	}
	if v := q.Get("years"); v != "" {
		last := p.StartYear + p.Years - 1
		p.Years = intParam(verr, "years", v)
		p.StartYear = last - p.Years + 1
	}
	if v := q.Get("start_year"); v != "" {
		p.StartYear = intParam(verr, "start_year", v)
	}

	format := q.Get("format")
	switch format {
	case "":
		format = "png"
	case "png", "csv":
	default:
		verr.Add("format", "format must be png or csv")
	}
	if len(verr.Fields) > 0 {
		return p, format, verr
	}
	return p, format, nil
}

func intParam(verr *catalogue.ValidationError, name, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		verr.Add(name, "%q is not an integer", v)
	}
	return n
}

func floatParam(verr *catalogue.ValidationError, name, v string) float64 {
	if v == "" {
		verr.Add(name, "%s is required", name)
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		verr.Add(name, "%q is not a number", v)
	}
	return f
}
