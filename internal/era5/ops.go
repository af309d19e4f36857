package era5

import (
	"math"
	"slices"
	"time"

	"github.com/pkg/errors"
)

// Coordinates closer than this are considered equal.
const coordTolerance = 1e-6

// ConcatTime concatenates fields along the time axis. All fields must share
// the same grid; the result is ordered by time and carries the metadata of
// the first field. A single field is returned as is.
func ConcatTime(fields ...*Field) (*Field, error) {
	if len(fields) == 0 {
		return nil, ErrEmptySelection
	}
	first := fields[0]
	if len(fields) == 1 {
		return first, nil
	}

	type slab struct {
		t     time.Time
		field *Field
		index int
	}
	var slabs []slab
	for _, f := range fields {
		if !sameCoords(f.Latitudes, first.Latitudes) || !sameCoords(f.Longitudes, first.Longitudes) {
			return nil, errors.Errorf("cannot concatenate %q along time: grids differ", f.Name)
		}
		for i, t := range f.Times {
			slabs = append(slabs, slab{t: t, field: f, index: i})
		}
	}
	slices.SortStableFunc(slabs, func(a, b slab) int { return a.t.Compare(b.t) })

	times := make([]time.Time, len(slabs))
	for i, s := range slabs {
		if i > 0 && s.t.Equal(slabs[i-1].t) {
			return nil, errors.Errorf("cannot concatenate %q along time: duplicate timestamp %s", first.Name, s.t)
		}
		times[i] = s.t
	}

	out := first.withCoords(times, clone(first.Latitudes), clone(first.Longitudes))
	for i, s := range slabs {
		copy(out.Slab(i), s.field.Slab(s.index))
	}
	return out, nil
}

// ConcatLongitude places fields side by side along the longitude axis, in
// argument order. All fields must share timestamps and latitudes.
func ConcatLongitude(fields ...*Field) (*Field, error) {
	if len(fields) == 0 {
		return nil, ErrEmptySelection
	}
	first := fields[0]
	var lons []float64
	for _, f := range fields {
		if !sameCoords(f.Latitudes, first.Latitudes) {
			return nil, errors.Errorf("cannot concatenate %q along longitude: latitudes differ", f.Name)
		}
		if !slices.EqualFunc(f.Times, first.Times, time.Time.Equal) {
			return nil, errors.Errorf("cannot concatenate %q along longitude: timestamps differ", f.Name)
		}
		lons = append(lons, f.Longitudes...)
	}

	out := first.withCoords(slices.Clone(first.Times), clone(first.Latitudes), lons)
	for t := range out.Times {
		for i := range out.Latitudes {
			j := 0
			for _, f := range fields {
				for fj := range f.Longitudes {
					out.Set(t, i, j, f.At(t, i, fj))
					j++
				}
			}
		}
	}
	return out, nil
}

// SelectExtent keeps the cells inside the closed box [west, east] x [south,
// north].
func (f *Field) SelectExtent(west, east, south, north float64) (*Field, error) {
	latIdx := indicesWithin(f.Latitudes, south, north)
	lonIdx := indicesWithin(f.Longitudes, west, east)
	if len(latIdx) == 0 || len(lonIdx) == 0 {
		return nil, errors.Wrapf(ErrEmptySelection, "no grid cell of %q within lon [%g, %g] lat [%g, %g]",
			f.Name, west, east, south, north)
	}

	lats := make([]float64, len(latIdx))
	for i, k := range latIdx {
		lats[i] = f.Latitudes[k]
	}
	lons := make([]float64, len(lonIdx))
	for j, k := range lonIdx {
		lons[j] = f.Longitudes[k]
	}

	out := f.withCoords(slices.Clone(f.Times), lats, lons)
	for t := range f.Times {
		for i, fi := range latIdx {
			for j, fj := range lonIdx {
				out.Set(t, i, j, f.At(t, fi, fj))
			}
		}
	}
	return out, nil
}

// ShiftTime moves every timestamp by the given number of hours. The result
// shares its values with f.
func (f *Field) ShiftTime(hours int) *Field {
	out := *f
	d := time.Duration(hours) * time.Hour
	out.Times = make([]time.Time, len(f.Times))
	for i, t := range f.Times {
		out.Times[i] = t.Add(d)
	}
	return &out
}

// SelectStep keeps the timestamps at or after start that lie a whole
// multiple of step hours from it.
func (f *Field) SelectStep(start time.Time, step int) (*Field, error) {
	if step < 1 {
		return nil, errors.Errorf("invalid time step %d", step)
	}
	return f.selectTimes(func(t time.Time) bool {
		if t.Before(start) {
			return false
		}
		d := t.Sub(start)
		return d%(time.Duration(step)*time.Hour) == 0
	})
}

// SelectMonth keeps the timestamps of the given calendar month.
func (f *Field) SelectMonth(year int, month time.Month) (*Field, error) {
	return f.selectTimes(func(t time.Time) bool {
		return t.Year() == year && t.Month() == month
	})
}

// ResampleDaily aggregates the samples of each calendar day with stat. The
// resulting timestamps are the days at 00:00. Timestamps must be sorted.
func (f *Field) ResampleDaily(stat Statistic) *Field {
	var (
		days   []time.Time
		bounds []int
	)
	for i, t := range f.Times {
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		if len(days) == 0 || !day.Equal(days[len(days)-1]) {
			days = append(days, day)
			bounds = append(bounds, i)
		}
	}
	bounds = append(bounds, len(f.Times))

	out := f.withCoords(days, clone(f.Latitudes), clone(f.Longitudes))
	n := f.GridSize()
	buf := make([]float64, 0, 24)
	for d := range days {
		slab := out.Slab(d)
		for c := 0; c < n; c++ {
			buf = buf[:0]
			for t := bounds[d]; t < bounds[d+1]; t++ {
				buf = append(buf, f.Values[t*n+c])
			}
			slab[c] = stat.apply(buf)
		}
	}
	return out
}

// ExtractPoint returns the single-cell field nearest to the given location.
func (f *Field) ExtractPoint(lat, lon float64) (*Field, error) {
	if len(f.Latitudes) == 0 || len(f.Longitudes) == 0 {
		return nil, ErrEmptySelection
	}
	i := nearest(f.Latitudes, lat, func(a, b float64) float64 { return math.Abs(a - b) })
	j := nearest(f.Longitudes, lon, lonDistance)

	out := f.withCoords(slices.Clone(f.Times), []float64{f.Latitudes[i]}, []float64{f.Longitudes[j]})
	for t := range f.Times {
		out.Values[t] = f.At(t, i, j)
	}
	return out, nil
}

func (f *Field) selectTimes(keep func(time.Time) bool) (*Field, error) {
	var idx []int
	for i, t := range f.Times {
		if keep(t) {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, errors.Wrapf(ErrEmptySelection, "no timestamp of %q selected", f.Name)
	}
	times := make([]time.Time, len(idx))
	for i, k := range idx {
		times[i] = f.Times[k]
	}
	out := f.withCoords(times, clone(f.Latitudes), clone(f.Longitudes))
	for i, k := range idx {
		copy(out.Slab(i), f.Slab(k))
	}
	return out, nil
}

func indicesWithin(coords []float64, lo, hi float64) []int {
	var idx []int
	for i, c := range coords {
		if c >= lo-coordTolerance && c <= hi+coordTolerance {
			idx = append(idx, i)
		}
	}
	return idx
}

func nearest(coords []float64, x float64, dist func(a, b float64) float64) int {
	best := 0
	for i := range coords {
		if dist(coords[i], x) < dist(coords[best], x) {
			best = i
		}
	}
	return best
}

func lonDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return math.Min(d, 360-d)
}

func sameCoords(a, b []float64) bool {
	return slices.EqualFunc(a, b, func(x, y float64) bool { return math.Abs(x-y) <= coordTolerance })
}

func clone(s []float64) []float64 {
	return append([]float64(nil), s...)
}
