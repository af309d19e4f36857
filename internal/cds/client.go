// Package cds retrieves ERA5 fields from the Climate Data Store web API.
package cds

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Jeffail/gabs"
	"github.com/parnurzeal/gorequest"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/rtm0/era5stats/internal/era5"
)

// Task states reported by the API.
const (
	stateQueued    = "queued"
	stateRunning   = "running"
	stateCompleted = "completed"
	stateFailed    = "failed"
)

// RetrieveError reports a request rejected or failed by the API.
type RetrieveError struct {
	Dataset string
	Status  int
	Message string
	Reason  string
}

func (e *RetrieveError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "retrieving %s failed", e.Dataset)
	if e.Status != 0 {
		fmt.Fprintf(&sb, " with status %d", e.Status)
	}
	if e.Message != "" {
		sb.WriteString(": " + e.Message)
	}
	if e.Reason != "" {
		sb.WriteString(" (" + e.Reason + ")")
	}
	return sb.String()
}

// Client is a Climate Data Store client. It is safe for concurrent use.
type Client struct {
	logger  *slog.Logger
	cfg     Config
	baseURL *url.URL
	user    string
	secret  string
	httpCli *http.Client
	limiter *rate.Limiter
	cache   *cache.Cache
}

// task is the state of a submitted request.
type task struct {
	ID            string
	State         string
	Location      string
	ContentLength int64
	Message       string
	Reason        string
}

// NewClient creates a new CDS client.
func NewClient(logger *slog.Logger, cfg Config) (*Client, error) {
	if cfg.Key == "" {
		return nil, ErrMissingCredentials
	}
	baseURL, err := url.Parse(strings.TrimRight(cfg.URL, "/") + "/")
	if err != nil {
		return nil, errors.Wrapf(err, "parsing API URL %q", cfg.URL)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.MaxPollInterval < cfg.PollInterval {
		cfg.MaxPollInterval = cfg.PollInterval
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 1
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	user, secret, _ := strings.Cut(cfg.Key, ":")

	// A zero TTL means never expire to go-cache; here it disables caching.
	var fields *cache.Cache
	if cfg.CacheTTL > 0 {
		fields = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}

	return &Client{
		logger:  logger,
		cfg:     cfg,
		baseURL: baseURL,
		user:    user,
		secret:  secret,
		httpCli: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        cfg.MaxConns,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: cfg.MaxConns,
				MaxConnsPerHost:     cfg.MaxConns,
			},
		},
		limiter: rate.NewLimiter(limit, 1),
		cache:   fields,
	}, nil
}

// Retrieve submits req to dataset, waits for the result, downloads and
// decodes it. Identical requests are served from memory while cached; the
// cached field is shared between callers and must not be modified.
func (c *Client) Retrieve(ctx context.Context, dataset string, req Request) (*era5.Field, error) {
	key := cacheKey(dataset, req)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			c.logger.Debug("Serving request from cache", "dataset", dataset)
			return v.(*era5.Field), nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "waiting to submit request")
	}
	start := time.Now()
	t, err := c.submit(dataset, req)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Submitted request", "dataset", dataset, "variable", req.Variable, "id", t.ID, "state", t.State)

	t, err = c.wait(ctx, dataset, t)
	if err != nil {
		return nil, err
	}

	path, err := c.download(ctx, t)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	f, err := era5.ReadFile(path, "")
	if err != nil {
		return nil, errors.Wrapf(err, "decoding result of %s", t.ID)
	}
	c.logger.Info("Request completed", "dataset", dataset, "id", t.ID,
		"bytes", t.ContentLength, "in", time.Since(start).Round(time.Second))

	if c.cache != nil {
		c.cache.SetDefault(key, f)
	}
	return f, nil
}

func (c *Client) submit(dataset string, req Request) (*task, error) {
	resp, body, errs := c.prepare(gorequest.New().Post(c.url("resources/" + dataset))).
		Send(req).
		EndBytes()
	return c.taskFromResponse(dataset, resp, body, errs)
}

// wait polls the task until it completes, backing off up to the maximum
// poll interval.
func (c *Client) wait(ctx context.Context, dataset string, t *task) (*task, error) {
	interval := c.cfg.PollInterval
	for {
		switch t.State {
		case stateCompleted:
			return t, nil
		case stateFailed:
			return nil, &RetrieveError{Dataset: dataset, Message: t.Message, Reason: t.Reason}
		case stateQueued, stateRunning:
		default:
			return nil, errors.Errorf("request %s is in unknown state %q", t.ID, t.State)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "waiting for request %s", t.ID)
		case <-time.After(interval):
		}
		interval = min(interval*3/2, c.cfg.MaxPollInterval)

		resp, body, errs := c.prepare(gorequest.New().Get(c.url("tasks/" + t.ID))).EndBytes()
		next, err := c.taskFromResponse(dataset, resp, body, errs)
		if err != nil {
			return nil, err
		}
		if next.State != t.State {
			c.logger.Info("Request state changed", "id", t.ID, "state", next.State)
		}
		t = next
	}
}

// download stores the result of a completed task in a temporary file and
// returns its path.
func (c *Client) download(ctx context.Context, t *task) (string, error) {
	loc, err := url.Parse(t.Location)
	if err != nil {
		return "", errors.Wrapf(err, "parsing location of %s", t.ID)
	}
	loc = c.baseURL.ResolveReference(loc)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.String(), nil)
	if err != nil {
		return "", errors.WithStack(err)
	}
	// Credentials only go to the API host.
	if loc.Host == c.baseURL.Host {
		if c.secret == "" {
			req.Header.Set("PRIVATE-TOKEN", c.user)
		} else {
			req.SetBasicAuth(c.user, c.secret)
		}
	}
	res, err := c.httpCli.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "downloading %s", t.ID)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", errors.Errorf("downloading %s: unexpected status %d", t.ID, res.StatusCode)
	}

	f, err := os.CreateTemp(c.cfg.WorkDir, "era5-*.nc")
	if err != nil {
		return "", errors.Wrap(err, "creating download file")
	}
	n, err := io.Copy(f, res.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && t.ContentLength > 0 && n != t.ContentLength {
		err = errors.Errorf("downloaded %d bytes, expected %d", n, t.ContentLength)
	}
	if err != nil {
		os.Remove(f.Name())
		return "", errors.Wrapf(err, "downloading %s", t.ID)
	}
	return f.Name(), nil
}

// prepare adds headers, timeout and credentials once the method and URL of
// a request are set.
func (c *Client) prepare(a *gorequest.SuperAgent) *gorequest.SuperAgent {
	a = a.Set("Accept", "application/json, */*")
	if c.cfg.Timeout > 0 {
		a = a.Timeout(c.cfg.Timeout)
	}
	if c.secret == "" {
		return a.Set("PRIVATE-TOKEN", c.user)
	}
	return a.SetBasicAuth(c.user, c.secret)
}

func (c *Client) url(path string) string {
	return c.baseURL.ResolveReference(&url.URL{Path: path}).String()
}

func (c *Client) taskFromResponse(dataset string, resp gorequest.Response, body []byte, errs []error) (*task, error) {
	if len(errs) > 0 {
		return nil, errors.Wrapf(errs[0], "calling %s API", dataset)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		e := &RetrieveError{Dataset: dataset, Status: resp.StatusCode}
		if t, err := parseTask(body); err == nil {
			e.Message, e.Reason = t.Message, t.Reason
		} else {
			e.Message = strings.TrimSpace(string(body))
		}
		return nil, e
	}
	return parseTask(body)
}

func parseTask(body []byte) (*task, error) {
	if len(body) == 0 {
		return nil, errors.New("zero response")
	}
	json, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, errors.Wrap(err, "parsing API response")
	}
	t := &task{}
	t.ID, _ = json.Path("request_id").Data().(string)
	t.State, _ = json.Path("state").Data().(string)
	t.Location, _ = json.Path("location").Data().(string)
	if n, ok := json.Path("content_length").Data().(float64); ok {
		t.ContentLength = int64(n)
	}
	t.Message, _ = json.Path("error.message").Data().(string)
	t.Reason, _ = json.Path("error.reason").Data().(string)
	if t.Message == "" {
		t.Message, _ = json.Path("message").Data().(string)
	}
	return t, nil
}
