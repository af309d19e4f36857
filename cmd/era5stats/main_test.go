package main

import (
	"bufio"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rtm0/era5stats/internal/era5"
)

func TestCommandNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, cmd := range commands {
		name := cmd.Name()
		assert.NotEmpty(t, name)
		assert.False(t, seen[name], "%s listed twice", name)
		seen[name] = true
		assert.NotEmpty(t, cmd.Short, name)
		assert.NotEmpty(t, cmd.Long, name)
	}
	assert.Equal(t, "daily", cmdDaily.Name())
	assert.True(t, cmdServe.Runnable())
	assert.False(t, helpCredentials.Runnable())
}

func TestRetrievalFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	rf := addRetrievalFlags(fs)
	require.NoError(t, fs.Parse([]string{"-concurrency", "2", "-key", "1:x"}))
	assert.Equal(t, 2, rf.concurrency)
	assert.Equal(t, "1:x", rf.cfg.Key)
	assert.Equal(t, time.Hour, rf.cfg.CacheTTL)
	assert.NotNil(t, cmdDaily.Flag.Lookup("rpm"))
	assert.NotNil(t, cmdPoint.Flag.Lookup("key"))
	assert.NotNil(t, cmdServe.Flag.Lookup("env-file"))
	assert.Nil(t, cmdExport.Flag.Lookup("key"))
}

func testField() *era5.Field {
	times := []time.Time{time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC)}
	f := era5.NewField("t2m", times, []float64{45}, []float64{7, 7.25})
	f.Values[0], f.Values[1] = 280, 281.5
	return f
}

func TestWriteField(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, writeField(csvPath, testField()))
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	sc := bufio.NewScanner(f)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	assert.Equal(t, []string{
		"time,latitude,longitude,t2m",
		"2021-02-01T00:00:00Z,45,7,280",
		"2021-02-01T00:00:00Z,45,7.25,281.5",
	}, lines)

	ncPath := filepath.Join(dir, "out.nc")
	require.NoError(t, writeField(ncPath, testField()))
	got, err := era5.ReadFile(ncPath, "t2m")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{280, 281.5}, got.Values, 1e-3)
}
