package vm

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtm0/era5stats/internal/era5"
)

var recs = []era5.Record{
	{Timestamp: 1625097600000, Latitude: 50.5, Longitude: 4.75, Value: 280.25},
	{Timestamp: 1625184000000, Latitude: 50.25, Longitude: -4.5, Value: 0.001},
}

type captured struct {
	query url.Values
	body  string
}

func sink(t *testing.T, status int) (*httptest.Server, *captured) {
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		c.query = r.URL.Query()
		c.body = string(b)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func newClient(t *testing.T, insertURL string) *Client {
	c, err := NewClient(slog.New(slog.NewTextHandler(io.Discard, nil)), insertURL, 2, "era5", "t2m")
	require.NoError(t, err)
	return c
}

func TestInsertInfluxDB(t *testing.T) {
	srv, got := sink(t, http.StatusNoContent)
	c := newClient(t, srv.URL+"/write")
	assert.Equal(t, "era5_t2m", c.Metric())

	require.NoError(t, c.Insert(context.Background(), recs))
	assert.Equal(t, "ms", got.query.Get("precision"))
	assert.Equal(t, ""+
		"era5_t2m,la=50.50,lo=4.75 value=280.25 1625097600000\n"+
		"era5_t2m,la=50.25,lo=-4.50 value=0.001 1625184000000\n", got.body)
}

func TestInsertCSV(t *testing.T) {
	srv, got := sink(t, http.StatusNoContent)
	c := newClient(t, srv.URL+"/api/v1/import/csv")

	require.NoError(t, c.Insert(context.Background(), recs))
	assert.Equal(t, "1:time:unix_ms,2:label:la,3:label:lo,4:metric:era5_t2m", got.query.Get("format"))
	assert.Equal(t, "1625097600000,50.50,4.75,280.25\n1625184000000,50.25,-4.50,0.001\n", got.body)
}

func TestInsertUnexpectedStatus(t *testing.T) {
	srv, _ := sink(t, http.StatusBadRequest)
	err := newClient(t, srv.URL+"/write").Insert(context.Background(), recs)
	assert.EqualError(t, err, "unexpected status 400")
}

func TestNewClientRejects(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewClient(logger, "http://localhost:8428/write", 1, "era-5", "t2m")
	assert.ErrorContains(t, err, "metric prefix")
	_, err = NewClient(logger, "http://localhost:8428/write", 1, "era5", "t 2m")
	assert.ErrorContains(t, err, "variable")
	_, err = NewClient(logger, "http://localhost:8428/api/v1/import/prometheus", 1, "era5", "t2m")
	assert.ErrorContains(t, err, "is not supported")
}
