package era5

import (
	"math"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/pkg/errors"
)

// Time reference of the files written by WriteFile and of legacy CDS files.
var epoch1900 = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Value written for missing data.
const fillValue float32 = -32767

var (
	timeNames      = []string{"time", "valid_time"}
	latitudeNames  = []string{"latitude", "lat"}
	longitudeNames = []string{"longitude", "lon"}
)

// reader decodes one data variable of an ERA5 NetCDF file.
type reader struct {
	nc    api.Group
	name  string
	vg    api.VarGetter
	times []time.Time
	lats  []float64
	lons  []float64

	longName string
	units    string
	scale    float64
	offset   float64
	missing  []float64
}

// ReadFile decodes variable from the NetCDF file at path. When variable is
// empty, the file must contain exactly one gridded data variable.
func ReadFile(path, variable string) (*Field, error) {
	r, err := openReader(path, variable)
	if err != nil {
		return nil, err
	}
	defer r.close()

	raw, err := r.vg.Values()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", r.name)
	}
	values, err := r.decode(raw)
	if err != nil {
		return nil, err
	}
	f := &Field{
		Name:       r.name,
		LongName:   r.longName,
		Units:      r.units,
		Times:      r.times,
		Latitudes:  r.lats,
		Longitudes: r.lons,
		Values:     values,
	}
	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return f, nil
}

func openReader(path, variable string) (*reader, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	r := &reader{nc: nc, scale: 1}
	if err := r.init(variable); err != nil {
		nc.Close()
		return nil, errors.Wrap(err, path)
	}
	return r, nil
}

func (r *reader) init(variable string) error {
	var err error
	if variable == "" {
		if variable, err = r.dataVariable(); err != nil {
			return err
		}
	}
	r.name = variable
	if r.vg, err = r.nc.GetVarGetter(variable); err != nil {
		return errors.Wrapf(err, "variable %q", variable)
	}

	timeVar, err := r.coordinate(timeNames)
	if err != nil {
		return err
	}
	if r.times, err = decodeTimes(timeVar); err != nil {
		return err
	}
	latVar, err := r.coordinate(latitudeNames)
	if err != nil {
		return err
	}
	if r.lats, err = toFloats(latVar.Values); err != nil {
		return errors.Wrap(err, "latitude")
	}
	lonVar, err := r.coordinate(longitudeNames)
	if err != nil {
		return err
	}
	if r.lons, err = toFloats(lonVar.Values); err != nil {
		return errors.Wrap(err, "longitude")
	}

	attrs := r.vg.Attributes()
	r.longName, _ = attrString(attrs, "long_name")
	r.units, _ = attrString(attrs, "units")
	if v, ok := attrFloat(attrs, "scale_factor"); ok {
		r.scale = v
	}
	if v, ok := attrFloat(attrs, "add_offset"); ok {
		r.offset = v
	}
	for _, key := range []string{"_FillValue", "missing_value"} {
		if v, ok := attrFloat(attrs, key); ok {
			r.missing = append(r.missing, v)
		}
	}
	return nil
}

// dataVariable finds the single variable with at least three dimensions.
func (r *reader) dataVariable() (string, error) {
	var found []string
	for _, name := range r.nc.ListVariables() {
		vg, err := r.nc.GetVarGetter(name)
		if err != nil {
			continue
		}
		if len(vg.Dimensions()) >= 3 {
			found = append(found, name)
		}
	}
	if len(found) != 1 {
		return "", errors.Errorf("expected one data variable, found %d %v", len(found), found)
	}
	return found[0], nil
}

func (r *reader) coordinate(names []string) (*api.Variable, error) {
	for _, name := range names {
		if v, err := r.nc.GetVariable(name); err == nil && v != nil {
			return v, nil
		}
	}
	return nil, errors.Errorf("missing coordinate %s", strings.Join(names, "/"))
}

func (r *reader) close() {
	r.nc.Close()
}

// unpack applies the CF packing attributes to a raw value.
func (r *reader) unpack(raw float64) float64 {
	if math.IsNaN(raw) {
		return raw
	}
	for _, m := range r.missing {
		if raw == m {
			return math.NaN()
		}
	}
	return raw*r.scale + r.offset
}

// decode converts raw values of one or more timestamps to unpacked floats.
// A fourth dimension (level, ensemble member or experiment version) is
// merged by taking its first valid value.
func (r *reader) decode(raw any) ([]float64, error) {
	switch v := raw.(type) {
	case [][][]int8:
		return unpack3(v, r.unpack), nil
	case [][][]int16:
		return unpack3(v, r.unpack), nil
	case [][][]int32:
		return unpack3(v, r.unpack), nil
	case [][][]float32:
		return unpack3(v, r.unpack), nil
	case [][][]float64:
		return unpack3(v, r.unpack), nil
	case [][][][]int8:
		return unpack4(v, r.unpack), nil
	case [][][][]int16:
		return unpack4(v, r.unpack), nil
	case [][][][]int32:
		return unpack4(v, r.unpack), nil
	case [][][][]float32:
		return unpack4(v, r.unpack), nil
	case [][][][]float64:
		return unpack4(v, r.unpack), nil
	}
	return nil, errors.Errorf("variable %q has unsupported type %T", r.name, raw)
}

type number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

func unpack3[T number](v [][][]T, unpack func(float64) float64) []float64 {
	n := 0
	if len(v) > 0 && len(v[0]) > 0 {
		n = len(v) * len(v[0]) * len(v[0][0])
	}
	out := make([]float64, 0, n)
	for _, plane := range v {
		for _, row := range plane {
			for _, x := range row {
				out = append(out, unpack(float64(x)))
			}
		}
	}
	return out
}

func unpack4[T number](v [][][][]T, unpack func(float64) float64) []float64 {
	var out []float64
	for _, cube := range v {
		if len(cube) == 0 {
			continue
		}
		if out == nil && len(cube[0]) > 0 {
			out = make([]float64, 0, len(v)*len(cube[0])*len(cube[0][0]))
		}
		start := len(out)
		for _, row := range cube[0] {
			for _, x := range row {
				out = append(out, unpack(float64(x)))
			}
		}
		plane := out[start:]
		for _, extra := range cube[1:] {
			k := 0
			for _, row := range extra {
				for _, x := range row {
					if math.IsNaN(plane[k]) {
						plane[k] = unpack(float64(x))
					}
					k++
				}
			}
		}
	}
	return out
}

func decodeTimes(v *api.Variable) ([]time.Time, error) {
	units, ok := attrString(v.Attributes, "units")
	if !ok {
		return nil, errors.New("time coordinate has no units")
	}
	unit, ref, err := parseTimeUnits(units)
	if err != nil {
		return nil, err
	}
	offsets, err := toFloats(v.Values)
	if err != nil {
		return nil, errors.Wrap(err, "time")
	}
	times := make([]time.Time, len(offsets))
	for i, o := range offsets {
		times[i] = ref.Add(time.Duration(math.Round(o * float64(unit))))
	}
	return times, nil
}

// parseTimeUnits parses CF time units such as "hours since 1900-01-01
// 00:00:00.0".
func parseTimeUnits(units string) (time.Duration, time.Time, error) {
	name, since, ok := strings.Cut(units, " since ")
	if !ok {
		return 0, time.Time{}, errors.Errorf("malformed time units %q", units)
	}
	var unit time.Duration
	switch strings.TrimSpace(name) {
	case "seconds":
		unit = time.Second
	case "minutes":
		unit = time.Minute
	case "hours":
		unit = time.Hour
	case "days":
		unit = 24 * time.Hour
	default:
		return 0, time.Time{}, errors.Errorf("unsupported time unit in %q", units)
	}
	since = strings.TrimSpace(since)
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"2006-1-2 15:4:5",
		"2006-01-02",
	} {
		if ref, err := time.ParseInLocation(layout, since, time.UTC); err == nil {
			return unit, ref, nil
		}
	}
	return 0, time.Time{}, errors.Errorf("malformed reference date in %q", units)
}

func toFloats(values any) ([]float64, error) {
	switch v := values.(type) {
	case []float32:
		return convert(v), nil
	case []float64:
		return convert(v), nil
	case []int32:
		return convert(v), nil
	case []int64:
		return convert(v), nil
	case []int16:
		return convert(v), nil
	case []int8:
		return convert(v), nil
	}
	return nil, errors.Errorf("unsupported coordinate type %T", values)
}

func convert[T number](s []T) []float64 {
	out := make([]float64, len(s))
	for i, x := range s {
		out[i] = float64(x)
	}
	return out
}

func attrString(attrs api.AttributeMap, key string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	v, ok := attrs.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func attrFloat(attrs api.AttributeMap, key string) (float64, bool) {
	if attrs == nil {
		return 0, false
	}
	v, ok := attrs.Get(key)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		if s, err := toFloats(x); err == nil && len(s) > 0 {
			return s[0], true
		}
	}
	return 0, false
}

// WriteFile writes fields to a NetCDF-3 file at path. All fields must share
// the coordinates of the first one. Times are stored as hours since
// 1900-01-01.
func WriteFile(path string, fields ...*Field) (err error) {
	if len(fields) == 0 {
		return errors.New("no field to write")
	}
	first := fields[0]
	for _, f := range fields {
		if err := f.Validate(); err != nil {
			return err
		}
		if !sameCoords(f.Latitudes, first.Latitudes) || !sameCoords(f.Longitudes, first.Longitudes) ||
			len(f.Times) != len(first.Times) {
			return errors.Errorf("field %q does not share the coordinates of %q", f.Name, first.Name)
		}
	}

	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := cw.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "closing %s", path)
		}
	}()

	global, err := attributes(
		"Conventions", "CF-1.6",
		"history", "daily statistics computed from ERA5 hourly data",
	)
	if err != nil {
		return err
	}
	if err := cw.AddGlobalAttrs(global); err != nil {
		return errors.Wrap(err, "writing global attributes")
	}

	hours := make([]int32, len(first.Times))
	for i, t := range first.Times {
		hours[i] = int32(t.Sub(epoch1900) / time.Hour)
	}
	coords := []struct {
		name     string
		values   any
		units    string
		longName string
	}{
		{"longitude", toFloat32(first.Longitudes), "degrees_east", "longitude"},
		{"latitude", toFloat32(first.Latitudes), "degrees_north", "latitude"},
		{"time", hours, "hours since 1900-01-01 00:00:00.0", "time"},
	}
	for _, c := range coords {
		attrs, err := attributes("units", c.units, "long_name", c.longName)
		if err != nil {
			return err
		}
		err = cw.AddVar(c.name, api.Variable{
			Values:     c.values,
			Dimensions: []string{c.name},
			Attributes: attrs,
		})
		if err != nil {
			return errors.Wrapf(err, "writing %s", c.name)
		}
	}

	for _, f := range fields {
		attrs, err := attributes("units", f.Units, "long_name", f.LongName, "_FillValue", fillValue)
		if err != nil {
			return err
		}
		err = cw.AddVar(f.Name, api.Variable{
			Values:     f.cube(),
			Dimensions: []string{"time", "latitude", "longitude"},
			Attributes: attrs,
		})
		if err != nil {
			return errors.Wrapf(err, "writing %s", f.Name)
		}
	}
	return nil
}

// cube returns the values as a (time, latitude, longitude) float32 array with
// NaN replaced by the fill value.
func (f *Field) cube() [][][]float32 {
	nlat, nlon := len(f.Latitudes), len(f.Longitudes)
	out := make([][][]float32, len(f.Times))
	for t := range out {
		out[t] = make([][]float32, nlat)
		for i := range out[t] {
			row := make([]float32, nlon)
			for j := range row {
				v := f.At(t, i, j)
				if math.IsNaN(v) {
					row[j] = fillValue
				} else {
					row[j] = float32(v)
				}
			}
			out[t][i] = row
		}
	}
	return out
}

// attributes builds an attribute map from key/value pairs, skipping empty
// strings.
func attributes(kv ...any) (api.AttributeMap, error) {
	var keys []string
	values := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := kv[i].(string)
		if s, ok := kv[i+1].(string); ok && s == "" {
			continue
		}
		keys = append(keys, key)
		values[key] = kv[i+1]
	}
	m, err := util.NewOrderedMap(keys, values)
	if err != nil {
		return nil, errors.Wrap(err, "building attributes")
	}
	return m, nil
}

func toFloat32(s []float64) []float32 {
	out := make([]float32, len(s))
	for i, x := range s {
		out[i] = float32(x)
	}
	return out
}
