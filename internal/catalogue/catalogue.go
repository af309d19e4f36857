// Package catalogue holds the fixed vocabulary of the ERA5 daily statistics
// tools: datasets, variables, levels, grids, time zones, statistics and the
// publication calendar of each dataset.
package catalogue

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidParameter is wrapped by every membership check in this package.
var ErrInvalidParameter = errors.New("invalid parameter")

// Dataset identifiers as known to the Climate Data Store.
const (
	SingleLevels   = "reanalysis-era5-single-levels"
	PressureLevels = "reanalysis-era5-pressure-levels"
	Land           = "reanalysis-era5-land"

	// BackExtensionSuffix is appended to a dataset identifier to address
	// the preliminary 1950-1978 data.
	BackExtensionSuffix = "-preliminary-back-extension"
)

// FirstYear is the first year offered for every dataset.
const FirstYear = 1950

// BackExtensionEnd is the last year served by the back extension.
const BackExtensionEnd = 1978

// NoLevel is the only level of datasets without a vertical dimension.
const NoLevel = "-"

// HighResolutionGrid is the ERA5-Land native grid. Retrievals on it are split
// into longitude bands.
const HighResolutionGrid = "0.1/0.1"

// Option is a value/label pair as offered to users.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Dataset describes one retrievable ERA5 dataset.
type Dataset struct {
	ID               string
	Short            string
	Name             string
	ProductTypes     []Option
	Variables        []Option
	Levels           []string
	DefaultLevel     string
	Grids            []string
	DefaultGrid      string
	HasBackExtension bool

	// Months between publication and today's month when the 6th of the
	// month has been reached.
	lagMonths int
}

var (
	Levels = []string{
		"1", "2", "3", "5", "7", "10", "20", "30", "50",
		"70", "100", "125", "150", "175", "200", "225", "250", "300",
		"350", "400", "450", "500", "550", "600", "650", "700", "750",
		"775", "800", "825", "850", "875", "900", "925", "950", "975",
		"1000",
	}

	ProductTypes = []Option{
		{Value: "reanalysis", Label: "Reanalysis"},
		{Value: "ensemble_members", Label: "Ensemble members"},
		{Value: "ensemble_mean", Label: "Ensemble mean"},
	}

	GridsERA5 = []string{
		"0.25/0.25", "0.5/0.5", "1.0/1.0", "1.5/1.5",
		"2.0/2.0", "2.5/2.5", "3.0/3.0",
	}
	GridsLand = append([]string{HighResolutionGrid}, GridsERA5...)

	Statistics = []Option{
		{Value: "daily_mean", Label: "Daily mean"},
		{Value: "daily_minimum", Label: "Daily minimum"},
		{Value: "daily_maximum", Label: "Daily maximum"},
		{Value: "daily_mid_range", Label: "Daily mid-range"},
	}

	Frequencies = []string{"1-hourly", "3-hourly", "6-hourly"}

	Months    = monthOptions()
	Days      = numbered(1, 31, "%02d")
	Times     = numbered(0, 23, "%02d:00")
	TimeZones = timeZones()
)

var statisticFunctions = map[string]string{
	"daily_mean":      "mean",
	"daily_maximum":   "max",
	"daily_minimum":   "min",
	"daily_mid_range": "mid-range",
}

var datasets = []Dataset{
	{
		ID:               SingleLevels,
		Short:            "e5sl",
		Name:             "ERA5 hourly data on single levels",
		ProductTypes:     ProductTypes,
		Variables:        variableOptions(singleLevelLabels, nil),
		Levels:           []string{NoLevel},
		DefaultLevel:     NoLevel,
		Grids:            GridsERA5,
		DefaultGrid:      "0.25/0.25",
		HasBackExtension: true,
		lagMonths:        1,
	},
	{
		ID:               PressureLevels,
		Short:            "e5pl",
		Name:             "ERA5 hourly data on pressure levels",
		ProductTypes:     ProductTypes,
		Variables:        variableOptions(pressureLevelLabels, nil),
		Levels:           Levels,
		DefaultLevel:     "850",
		Grids:            GridsERA5,
		DefaultGrid:      "0.25/0.25",
		HasBackExtension: true,
		lagMonths:        1,
	},
	{
		ID:           Land,
		Short:        "e5l",
		Name:         "ERA5-Land hourly data",
		ProductTypes: ProductTypes[:1],
		// Accumulated variables are not offered for ERA5-Land.
		Variables:    variableOptions(landLabels, accumulated),
		Levels:       []string{NoLevel},
		DefaultLevel: NoLevel,
		Grids:        GridsLand,
		DefaultGrid:  HighResolutionGrid,
		lagMonths:    3,
	},
}

var (
	accumulated   = toSet(accumulatedFields)
	hourPreceding = hourPrecedingSet()
)

// LabelToValue converts a human readable variable label into the variable
// name used in retrieval requests.
func LabelToValue(label string) string {
	label = strings.ReplaceAll(label, " (relative)", "")
	r := strings.NewReplacer(" ", "_", "-", "_", ",", "")
	return strings.ToLower(r.Replace(label))
}

// Datasets returns all datasets in presentation order.
func Datasets() []Dataset {
	return slices.Clone(datasets)
}

// LookupDataset returns the dataset with the given identifier. Back
// extension identifiers resolve to their regular counterpart.
func LookupDataset(id string) (Dataset, error) {
	id = strings.TrimSuffix(id, BackExtensionSuffix)
	for _, d := range datasets {
		if d.ID == id {
			return d, nil
		}
	}
	return Dataset{}, errors.Wrapf(ErrInvalidParameter, "unknown dataset %q", id)
}

// Label returns the dropdown label of the dataset, which mentions the
// covered years.
func (d Dataset) Label(today time.Time) string {
	year, _ := d.Latest(today)
	return fmt.Sprintf("%s from %d to %d (including back extension)", d.Name, FirstYear, year)
}

// ForYear returns the identifier to retrieve year from. Before 1979 data
// comes from the back extension when the dataset has one.
func (d Dataset) ForYear(year int) string {
	if d.HasBackExtension && year < BackExtensionEnd+1 {
		return d.ID + BackExtensionSuffix
	}
	return d.ID
}

// HasVariable reports whether the variable value is offered for the dataset.
func (d Dataset) HasVariable(variable string) bool {
	return slices.ContainsFunc(d.Variables, func(o Option) bool { return o.Value == variable })
}

// HasProductType reports whether the product type is offered for the
// dataset.
func (d Dataset) HasProductType(productType string) bool {
	return slices.ContainsFunc(d.ProductTypes, func(o Option) bool { return o.Value == productType })
}

// HasGrid reports whether grid is one of the dataset's grids.
func (d Dataset) HasGrid(grid string) bool {
	return slices.Contains(d.Grids, grid)
}

// HasLevel reports whether level is valid for the dataset.
func (d Dataset) HasLevel(level string) bool {
	return slices.Contains(d.Levels, level)
}

// Latest returns the most recent month for which a full month of data plus
// the first day of the following month is published.
//
// ERA5 is published with a delay of 5 days and ERA5-Land with a delay of 2
// months and 5 days. One more day is added so that the first day of the
// next month exists for negative time zones.
func (d Dataset) Latest(today time.Time) (int, time.Month) {
	lag := d.lagMonths
	if today.Day() < 6 {
		lag++
	}
	month := wrapMonth(int(today.Month()) - lag)
	year := today.Year()
	if int(today.Month())-month <= 0 {
		year--
	}
	return year, time.Month(month)
}

// Years returns the offered years, newest first.
func (d Dataset) Years(today time.Time) []string {
	latest, _ := d.Latest(today)
	years := make([]string, 0, latest-FirstYear+1)
	for y := latest; y >= FirstYear; y-- {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// Months returns the months offered for year. Only the published months are
// offered for the latest year.
func (d Dataset) Months(year int, today time.Time) []Option {
	latestYear, latestMonth := d.Latest(today)
	switch {
	case year > latestYear || year < FirstYear:
		return nil
	case year == latestYear:
		return slices.Clone(Months[:latestMonth])
	default:
		return slices.Clone(Months)
	}
}

// CheckAvailable returns an error unless the given month is published.
func (d Dataset) CheckAvailable(year int, month time.Month, today time.Time) error {
	latestYear, latestMonth := d.Latest(today)
	if year < FirstYear || month < time.January || month > time.December {
		return errors.Wrapf(ErrInvalidParameter, "%d-%02d is outside of %s", year, month, d.ID)
	}
	if year > latestYear || (year == latestYear && month > latestMonth) {
		return errors.Wrapf(ErrInvalidParameter, "%d-%02d is not yet available for %s (latest is %d-%02d)",
			year, month, d.ID, latestYear, latestMonth)
	}
	return nil
}

// IsHourPrecedingField reports whether the samples of variable describe the
// hour preceding their timestamp, as accumulated and mean-rate fields do.
func IsHourPrecedingField(variable string) bool {
	return hourPreceding[variable]
}

// StatisticFunction maps a statistic value such as "daily_mid_range" to the
// name of the aggregation function.
func StatisticFunction(statistic string) (string, error) {
	fn, ok := statisticFunctions[statistic]
	if !ok {
		return "", errors.Wrapf(ErrInvalidParameter, "unknown statistic %q", statistic)
	}
	return fn, nil
}

// ParseFrequency converts "3-hourly" to 3.
func ParseFrequency(frequency string) (int, error) {
	if !slices.Contains(Frequencies, frequency) {
		return 0, errors.Wrapf(ErrInvalidParameter, "unknown frequency %q", frequency)
	}
	step, _, _ := strings.Cut(frequency, "-")
	return strconv.Atoi(step)
}

// ParseTimeZone converts a time zone such as "UTC-05:00" into its offset in
// hours.
func ParseTimeZone(tz string) (int, error) {
	if !slices.Contains(TimeZones, tz) {
		return 0, errors.Wrapf(ErrInvalidParameter, "unknown time zone %q", tz)
	}
	hours, _, _ := strings.Cut(strings.TrimPrefix(tz, "UTC"), ":")
	return strconv.Atoi(hours)
}

// ParseGrid returns the resolution in degrees of a grid such as "0.5/0.5".
func ParseGrid(grid string) (float64, error) {
	lat, lon, ok := strings.Cut(grid, "/")
	if !ok || lat != lon {
		return 0, errors.Wrapf(ErrInvalidParameter, "malformed grid %q", grid)
	}
	step, err := strconv.ParseFloat(lat, 64)
	if err != nil || step <= 0 {
		return 0, errors.Wrapf(ErrInvalidParameter, "malformed grid %q", grid)
	}
	return step, nil
}

func wrapMonth(m int) int {
	return ((m-1)%12+12)%12 + 1
}

func variableOptions(labels []string, exclude map[string]bool) []Option {
	seen := make(map[string]bool, len(labels))
	opts := make([]Option, 0, len(labels))
	for _, label := range labels {
		value := LabelToValue(label)
		if seen[value] || exclude[value] {
			continue
		}
		seen[value] = true
		opts = append(opts, Option{Value: value, Label: label})
	}
	slices.SortFunc(opts, func(a, b Option) int { return strings.Compare(a.Label, b.Label) })
	return opts
}

func monthOptions() []Option {
	opts := make([]Option, 12)
	for m := time.January; m <= time.December; m++ {
		opts[m-1] = Option{Value: fmt.Sprintf("%02d", int(m)), Label: m.String()}
	}
	return opts
}

func numbered(from, to int, format string) []string {
	s := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		s = append(s, fmt.Sprintf(format, i))
	}
	return s
}

func timeZones() []string {
	zones := make([]string, 0, 27)
	for h := -12; h <= 14; h++ {
		sign := "+"
		if h < 0 {
			sign = "-"
		}
		zones = append(zones, fmt.Sprintf("UTC%s%02d:00", sign, abs(h)))
	}
	return zones
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func hourPrecedingSet() map[string]bool {
	set := toSet(accumulatedFields)
	for _, label := range meanFieldLabels {
		set[LabelToValue(label)] = true
	}
	return set
}
