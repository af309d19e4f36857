package era5

import (
	"math"

	"github.com/pkg/errors"
)

// Scanner retrieves metric values from a file one timestamp at a time.
type Scanner struct {
	r    *reader
	pos  int
	recs []Record
	err  error
}

// NewScanner creates a new scanner over variable of a NetCDF file. An empty
// variable selects the single data variable of the file.
func NewScanner(filePath, variable string) (*Scanner, error) {
	r, err := openReader(filePath, variable)
	if err != nil {
		return nil, err
	}
	return &Scanner{r: r}, nil
}

// Close closes the scanner.
func (s *Scanner) Close() {
	s.r.close()
}

// Variable returns the name of the scanned variable.
func (s *Scanner) Variable() string {
	return s.r.name
}

// Summary returns the summary information about the dataset suitable for
// logging.
func (s *Scanner) Summary() []any {
	return []any{
		"dims", []string{"ts", "lo", "la"},
		"metric", s.r.name,
		"units", s.r.units,
		"tsCnt", len(s.r.times),
		"laCnt", len(s.r.lats),
		"loCnt", len(s.r.lons),
		"totalRecCnt", s.TotalRecCount(),
	}
}

// TotalRecCount returns the total number of records within the dataset.
func (s *Scanner) TotalRecCount() int {
	return len(s.r.times) * len(s.r.lats) * len(s.r.lons)
}

// Scan reads all records for the next timestamp. Missing values are skipped.
func (s *Scanner) Scan() bool {
	if s.err != nil || s.pos >= len(s.r.times) {
		return false
	}

	begin := int64(s.pos)
	raw, err := s.r.vg.GetSlice(begin, begin+1)
	if err != nil {
		s.err = errors.Wrapf(err, "reading %q at index %d", s.r.name, s.pos)
		return false
	}
	values, err := s.r.decode(raw)
	if err != nil {
		s.err = err
		return false
	}
	if len(values) != len(s.r.lats)*len(s.r.lons) {
		s.err = errors.Errorf("%q at index %d has %d values", s.r.name, s.pos, len(values))
		return false
	}

	ts := s.r.times[s.pos].UnixMilli()
	s.recs = make([]Record, 0, len(values))
	k := 0
	for _, la := range s.r.lats {
		for _, lo := range s.r.lons {
			if v := values[k]; !math.IsNaN(v) {
				s.recs = append(s.recs, Record{
					Timestamp: ts,
					Latitude:  float32(la),
					Longitude: float32(lo),
					Value:     v,
				})
			}
			k++
		}
	}
	s.pos++
	return true
}

// Err returns the first error encountered by Scan.
func (s *Scanner) Err() error {
	return s.err
}

// Records returns the records that have been read by the last Scan() operation.
// The function transfers ownership of records to the caller and the subsequent
// calls to this function without prior invocation of Scan() will return nil.
func (s *Scanner) Records() []Record {
	recs := s.recs
	s.recs = nil
	return recs
}
