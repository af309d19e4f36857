package cds

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Area is a latitude/longitude box in degrees. Lat holds south and north,
// Lon holds west and east.
type Area struct {
	Lat [2]float64 `json:"lat"`
	Lon [2]float64 `json:"lon"`
}

// GlobalArea covers the whole globe.
var GlobalArea = Area{Lat: [2]float64{-90, 90}, Lon: [2]float64{-180, 180}}

// ParseArea parses "north,west,south,east".
func ParseArea(s string) (Area, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Area{}, errors.Errorf("area %q must be north,west,south,east", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Area{}, errors.Wrapf(err, "area %q", s)
		}
		v[i] = f
	}
	a := Area{Lat: [2]float64{v[2], v[0]}, Lon: [2]float64{v[1], v[3]}}
	return a, a.Validate()
}

// Bounds returns the area as [north, west, south, east], the order used in
// retrieval requests.
func (a Area) Bounds() [4]float64 {
	return [4]float64{a.Lat[1], a.Lon[0], a.Lat[0], a.Lon[1]}
}

// IsGlobal reports whether a covers the whole globe.
func (a Area) IsGlobal() bool {
	return a == GlobalArea
}

// Overlaps reports whether the longitude ranges of a and b share a band of
// positive width.
func (a Area) Overlaps(b Area) bool {
	overlap := max(0, min(a.Lon[1], b.Lon[1])-max(a.Lon[0], b.Lon[0]))
	return overlap > 0
}

// Validate checks the area is finite, ordered and within the globe.
func (a Area) Validate() error {
	for _, v := range a.Bounds() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("bounds of %s must be finite", a)
		}
	}
	switch {
	case a.Lat[0] < -90 || a.Lat[1] > 90:
		return errors.Errorf("latitudes of %s must be within [-90, 90]", a)
	case a.Lon[0] < -180 || a.Lon[1] > 180:
		return errors.Errorf("longitudes of %s must be within [-180, 180]", a)
	case a.Lat[0] > a.Lat[1]:
		return errors.Errorf("south of %s is north of its north", a)
	case a.Lon[0] > a.Lon[1]:
		return errors.Errorf("west of %s is east of its east", a)
	}
	return nil
}

func (a Area) String() string {
	b := a.Bounds()
	return fmt.Sprintf("%g/%g/%g/%g", b[0], b[1], b[2], b[3])
}
