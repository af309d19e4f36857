// Package vm inserts daily statistics into Victoria Metrics.
package vm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/rtm0/era5stats/internal/era5"
)

// Client is a Victoria Metrics client capable of inserting ERA5 records via
// various protocols.
type Client struct {
	logger    *slog.Logger
	httpCli   *http.Client
	insertURL string
	metric    string
	recToText recToTextFunc
}

var (
	metricPrefixRE = regexp.MustCompile("^[a-zA-Z0-9]+$")
	variableRE     = regexp.MustCompile("^[a-zA-Z0-9_]+$")
)

// NewClient creates a new VM client inserting values of variable as the
// metric <metricPrefix>_<variable>.
func NewClient(logger *slog.Logger, insertURL string, maxConns int, metricPrefix, variable string) (*Client, error) {
	u, err := url.Parse(insertURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing insert URL %q", insertURL)
	}
	if !metricPrefixRE.MatchString(metricPrefix) {
		return nil, errors.Errorf("metric prefix %q does not match %q regular expression", metricPrefix, metricPrefixRE)
	}
	if !variableRE.MatchString(variable) {
		return nil, errors.Errorf("variable %q does not match %q regular expression", variable, variableRE)
	}
	metric := metricPrefix + "_" + variable

	apiParams := apiParamsFuncs[u.Path]
	recToText := recToTextFuncs[u.Path]
	if apiParams == nil || recToText == nil {
		return nil, errors.Errorf("inserting into %q is not supported", insertURL)
	}
	q := u.Query()
	for name, value := range apiParams(metric) {
		q.Set(name, value)
	}
	u.RawQuery = q.Encode()

	return &Client{
		logger: logger,
		httpCli: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        maxConns,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: maxConns,
				MaxConnsPerHost:     maxConns,
			},
		},
		insertURL: u.String(),
		metric:    metric,
		recToText: recToText,
	}, nil
}

// Metric returns the name of the inserted metric.
func (c *Client) Metric() string {
	return c.metric
}

// Insert inserts ERA5 records into Victoria Metrics.
func (c *Client) Insert(ctx context.Context, recs []era5.Record) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.insertURL,
		recsToText(recs, c.metric, c.recToText))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "text/plain")

	res, err := c.httpCli.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not post data")
	}
	defer res.Body.Close()
	if _, err := io.Copy(io.Discard, res.Body); err != nil {
		c.logger.Error("Failed to drain response body", "err", err)
	}
	if res.StatusCode != http.StatusNoContent && res.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", res.StatusCode)
	}
	return nil
}

type apiParamsFunc func(metric string) map[string]string

var apiParamsFuncs = map[string]apiParamsFunc{
	"/influx/write":        influxDBAPIParams,
	"/influx/api/v2/write": influxDBAPIParams,
	"/write":               influxDBAPIParams,
	"/api/v2/write":        influxDBAPIParams,
	"/api/v1/import/csv":   csvAPIParams,
}

// Record timestamps are in milliseconds.
func influxDBAPIParams(string) map[string]string {
	return map[string]string{"precision": "ms"}
}

func csvAPIParams(metric string) map[string]string {
	return map[string]string{
		"format": fmt.Sprintf("1:time:unix_ms,2:label:la,3:label:lo,4:metric:%s", metric),
	}
}

type recToTextFunc func(*strings.Builder, *era5.Record, string)

// recsToText converts multiple ERA5 records to text.
func recsToText(recs []era5.Record, metric string, recToText recToTextFunc) io.Reader {
	var sb strings.Builder
	for i := range recs {
		recToText(&sb, &recs[i], metric)
		sb.WriteString("\n")
	}
	return strings.NewReader(sb.String())
}

var recToTextFuncs = map[string]recToTextFunc{
	"/influx/write":        recToInfluxDB,
	"/influx/api/v2/write": recToInfluxDB,
	"/write":               recToInfluxDB,
	"/api/v2/write":        recToInfluxDB,
	"/api/v1/import/csv":   recToCSV,
}

// recToInfluxDB appends r in InfluxDB line protocol. The measurement is the
// metric and the single field is named value, which Victoria Metrics stores
// as <metric>_value.
func recToInfluxDB(sb *strings.Builder, r *era5.Record, metric string) {
	fmt.Fprintf(sb, "%s,la=%.2f,lo=%.2f value=%s %d",
		metric, r.Latitude, r.Longitude, formatValue(r.Value), r.Timestamp)
}

// recToCSV appends r as a CSV record.
func recToCSV(sb *strings.Builder, r *era5.Record, _ string) {
	fmt.Fprintf(sb, "%d,%.2f,%.2f,%s", r.Timestamp, r.Latitude, r.Longitude, formatValue(r.Value))
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
