package era5

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourly(start time.Time, n int) []time.Time {
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return times
}

func makeField(times []time.Time, lats, lons []float64, value func(t, i, j int) float64) *Field {
	f := NewField("t2m", times, lats, lons)
	f.Units = "K"
	for t := range times {
		for i := range lats {
			for j := range lons {
				f.Set(t, i, j, value(t, i, j))
			}
		}
	}
	return f
}

func TestConcatTime(t *testing.T) {
	day1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	lats, lons := []float64{10, 0}, []float64{0, 1}
	a := makeField(hourly(day1.Add(24*time.Hour), 2), lats, lons, func(t, _, _ int) float64 { return float64(10 + t) })
	b := makeField(hourly(day1, 2), lats, lons, func(t, _, _ int) float64 { return float64(t) })

	t.Run("orders slabs by time", func(t *testing.T) {
		c, err := ConcatTime(a, b)
		require.NoError(t, err)
		require.Len(t, c.Times, 4)
		assert.Equal(t, day1, c.Times[0])
		assert.Equal(t, 0.0, c.At(0, 1, 1))
		assert.Equal(t, 1.0, c.At(1, 0, 0))
		assert.Equal(t, 10.0, c.At(2, 0, 0))
		assert.Equal(t, "K", c.Units)
	})

	t.Run("rejects duplicate timestamps", func(t *testing.T) {
		_, err := ConcatTime(a, a)
		assert.Error(t, err)
	})

	t.Run("returns a single field unchanged", func(t *testing.T) {
		c, err := ConcatTime(a)
		require.NoError(t, err)
		assert.Same(t, a, c)
	})

	t.Run("rejects different grids", func(t *testing.T) {
		other := makeField(hourly(day1, 1), lats, []float64{5, 6}, func(_, _, _ int) float64 { return 0 })
		_, err := ConcatTime(a, other)
		assert.Error(t, err)
	})
}

func TestConcatLongitude(t *testing.T) {
	times := hourly(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 2)
	lats := []float64{1, 0}
	west := makeField(times, lats, []float64{-10, -9}, func(t, i, j int) float64 { return float64(100*t + 10*i + j) })
	east := makeField(times, lats, []float64{5}, func(t, i, _ int) float64 { return float64(-100*t - i) })

	c, err := ConcatLongitude(west, east)
	require.NoError(t, err)
	assert.Equal(t, []float64{-10, -9, 5}, c.Longitudes)
	assert.Equal(t, 111.0, c.At(1, 1, 1))
	assert.Equal(t, -101.0, c.At(1, 1, 2))
	assert.Equal(t, 10.0, c.At(0, 1, 0))

	_, err = ConcatLongitude(west, makeField(times[:1], lats, []float64{5}, func(_, _, _ int) float64 { return 0 }))
	assert.Error(t, err)
}

func TestSelectExtent(t *testing.T) {
	times := hourly(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 1)
	f := makeField(times, []float64{2, 1, 0, -1}, []float64{-2, -1, 0, 1, 2}, func(_, i, j int) float64 { return float64(10*i + j) })

	sub, err := f.SelectExtent(-1, 1, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, sub.Latitudes)
	assert.Equal(t, []float64{-1, 0, 1}, sub.Longitudes)
	assert.Equal(t, 11.0, sub.At(0, 0, 0))
	assert.Equal(t, 23.0, sub.At(0, 1, 2))

	_, err = f.SelectExtent(10, 20, 0, 1)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestShiftAndSelectStep(t *testing.T) {
	start := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)
	f := makeField(hourly(start, 48), []float64{0}, []float64{0}, func(t, _, _ int) float64 { return float64(t) })

	shifted := f.ShiftTime(-5)
	assert.Equal(t, start.Add(-5*time.Hour), shifted.Times[0])
	assert.Equal(t, start, f.Times[0], "shift must not modify the input")
	assert.Same(t, &f.Values[0], &shifted.Values[0], "values are shared, not copied")

	monthStart := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	sub, err := shifted.SelectStep(monthStart, 6)
	require.NoError(t, err)
	require.NotEmpty(t, sub.Times)
	assert.Equal(t, monthStart, sub.Times[0])
	for _, ts := range sub.Times {
		assert.Zero(t, ts.Hour()%6)
	}
	// 2020-02-01 00:00 is the 29th hourly value after the shift.
	assert.Equal(t, 29.0, sub.Values[0])

	_, err = shifted.SelectStep(monthStart, 0)
	assert.Error(t, err)
}

func TestResampleDaily(t *testing.T) {
	start := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	f := makeField(hourly(start, 48), []float64{0}, []float64{0, 1}, func(t, _, j int) float64 {
		if j == 1 && t < 24 {
			return math.NaN()
		}
		return float64(t % 24)
	})
	f.Set(30, 0, 0, math.NaN())

	cases := []struct {
		stat Statistic
		want float64
	}{
		{Mean, 11.5},
		{Minimum, 0},
		{Maximum, 23},
		{MidRange, 11.5},
	}
	for _, tc := range cases {
		t.Run(tc.stat.String(), func(t *testing.T) {
			daily := f.ResampleDaily(tc.stat)
			require.Len(t, daily.Times, 2)
			assert.Equal(t, start, daily.Times[0])
			assert.Equal(t, start.Add(24*time.Hour), daily.Times[1])
			assert.InDelta(t, tc.want, daily.At(0, 0, 0), 1e-9)
			assert.True(t, math.IsNaN(daily.At(0, 0, 1)), "a day without valid samples is missing")
			assert.InDelta(t, tc.want, daily.At(1, 0, 1), 1e-9)
		})
	}

	mean := f.ResampleDaily(Mean)
	assert.InDelta(t, (276.0-6)/23, mean.At(1, 0, 0), 1e-9, "missing samples are ignored")
}

func TestMidRangeDiffersFromMean(t *testing.T) {
	start := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)
	samples := []float64{0, 0, 0, 12}
	f := makeField(hourly(start, 4), []float64{0}, []float64{0}, func(t, _, _ int) float64 { return samples[t] })

	assert.Equal(t, 6.0, f.ResampleDaily(MidRange).Values[0])
	assert.Equal(t, 3.0, f.ResampleDaily(Mean).Values[0])
}

func TestSelectMonth(t *testing.T) {
	start := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)
	f := makeField([]time.Time{start, start.AddDate(0, 0, 1), start.AddDate(0, 0, 2)}, []float64{0}, []float64{0},
		func(t, _, _ int) float64 { return float64(t) })

	feb, err := f.SelectMonth(2020, time.February)
	require.NoError(t, err)
	assert.Len(t, feb.Times, 2)
	assert.Equal(t, 1.0, feb.Values[0])

	_, err = f.SelectMonth(2021, time.February)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestExtractPoint(t *testing.T) {
	times := hourly(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 3)
	f := makeField(times, []float64{45.5, 45.25, 45}, []float64{-180, 179.75}, func(t, i, j int) float64 { return float64(100*t + 10*i + j) })

	p, err := f.ExtractPoint(45.3, 179.8)
	require.NoError(t, err)
	assert.Equal(t, []float64{45.25}, p.Latitudes)
	assert.Equal(t, []float64{179.75}, p.Longitudes)
	assert.Equal(t, []float64{11, 111, 211}, p.Values)

	wrapped, err := f.ExtractPoint(45, -179.99)
	require.NoError(t, err)
	assert.Equal(t, []float64{-180}, wrapped.Longitudes)
}

func TestParseStatistic(t *testing.T) {
	for _, name := range []string{"mean", "min", "max", "mid-range"} {
		s, err := ParseStatistic(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}
	_, err := ParseStatistic("median")
	assert.Error(t, err)
}
