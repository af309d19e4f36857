// Package era5 holds gridded ERA5 fields in memory and implements the cube
// operations needed to turn hourly reanalysis data into daily statistics.
package era5

import (
	"math"
	"time"

	"github.com/pkg/errors"
)

// ErrEmptySelection is returned when a selection leaves no data.
var ErrEmptySelection = errors.New("selection is empty")

// Field is a single variable on a regular latitude/longitude grid over a
// sequence of timestamps. Values are stored in (time, latitude, longitude)
// row-major order; missing data is NaN.
//
// Fields are not modified once built: every operation returns a new field,
// and results may share coordinate or value slices with their input.
type Field struct {
	Name     string
	LongName string
	Units    string

	Times      []time.Time
	Latitudes  []float64
	Longitudes []float64
	Values     []float64
}

// NewField allocates a NaN-filled field for the given coordinates.
func NewField(name string, times []time.Time, lats, lons []float64) *Field {
	f := &Field{
		Name:       name,
		Times:      times,
		Latitudes:  lats,
		Longitudes: lons,
		Values:     make([]float64, len(times)*len(lats)*len(lons)),
	}
	for i := range f.Values {
		f.Values[i] = math.NaN()
	}
	return f
}

// GridSize returns the number of cells at one timestamp.
func (f *Field) GridSize() int {
	return len(f.Latitudes) * len(f.Longitudes)
}

// At returns the value at time index t, latitude index i and longitude index
// j.
func (f *Field) At(t, i, j int) float64 {
	return f.Values[f.index(t, i, j)]
}

// Set stores v at time index t, latitude index i and longitude index j.
func (f *Field) Set(t, i, j int, v float64) {
	f.Values[f.index(t, i, j)] = v
}

// Slab returns the values of time index t. The slice aliases the field.
func (f *Field) Slab(t int) []float64 {
	n := f.GridSize()
	return f.Values[t*n : (t+1)*n]
}

// Validate checks that the value count matches the coordinates.
func (f *Field) Validate() error {
	want := len(f.Times) * f.GridSize()
	if len(f.Values) != want {
		return errors.Errorf("field %q has %d values, want %d", f.Name, len(f.Values), want)
	}
	return nil
}

// withCoords returns a field carrying f's metadata and the given
// coordinates, with NaN values.
func (f *Field) withCoords(times []time.Time, lats, lons []float64) *Field {
	g := NewField(f.Name, times, lats, lons)
	g.LongName = f.LongName
	g.Units = f.Units
	return g
}

func (f *Field) index(t, i, j int) int {
	return (t*len(f.Latitudes)+i)*len(f.Longitudes) + j
}
