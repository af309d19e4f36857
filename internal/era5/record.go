package era5

// Record is a single daily statistic value taken at a given geo location at
// a given time.
type Record struct {
	// Dimensions
	Timestamp int64
	Latitude  float32
	Longitude float32

	// Metric
	Value float64
}
