package era5

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// WriteCSV writes one row per grid cell and timestamp with the columns time,
// latitude, longitude and the field name. Missing values are left empty.
func WriteCSV(w io.Writer, f *Field) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "latitude", "longitude", f.Name}); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	row := make([]string, 4)
	for t, ts := range f.Times {
		row[0] = ts.Format(time.RFC3339)
		for i, lat := range f.Latitudes {
			row[1] = strconv.FormatFloat(lat, 'f', -1, 64)
			for j, lon := range f.Longitudes {
				row[2] = strconv.FormatFloat(lon, 'f', -1, 64)
				row[3] = ""
				if v := f.At(t, i, j); !math.IsNaN(v) {
					row[3] = strconv.FormatFloat(v, 'g', -1, 64)
				}
				if err := cw.Write(row); err != nil {
					return errors.Wrap(err, "writing csv row")
				}
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
