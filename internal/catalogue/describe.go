package catalogue

import "time"

// DatasetDescription is the JSON view of a dataset on a given day.
type DatasetDescription struct {
	ID           string   `json:"id"`
	Short        string   `json:"short"`
	Label        string   `json:"label"`
	ProductTypes []Option `json:"product_types"`
	Variables    []Option `json:"variables"`
	Levels       []string `json:"levels"`
	DefaultLevel string   `json:"default_level"`
	Grids        []string `json:"grids"`
	DefaultGrid  string   `json:"default_grid"`
	Years        []string `json:"years"`
	LatestYear   int      `json:"latest_year"`
	LatestMonth  int      `json:"latest_month"`
}

// Description lists every choice offered to users on a given day.
type Description struct {
	Datasets    []DatasetDescription `json:"datasets"`
	Months      []Option             `json:"months"`
	TimeZones   []string             `json:"time_zones"`
	Statistics  []Option             `json:"statistics"`
	Frequencies []string             `json:"frequencies"`
}

// Describe returns the catalogue as of today.
func Describe(today time.Time) Description {
	desc := Description{
		Months:      Months,
		TimeZones:   TimeZones,
		Statistics:  Statistics,
		Frequencies: Frequencies,
	}
	for _, d := range datasets {
		year, month := d.Latest(today)
		desc.Datasets = append(desc.Datasets, DatasetDescription{
			ID:           d.ID,
			Short:        d.Short,
			Label:        d.Label(today),
			ProductTypes: d.ProductTypes,
			Variables:    d.Variables,
			Levels:       d.Levels,
			DefaultLevel: d.DefaultLevel,
			Grids:        d.Grids,
			DefaultGrid:  d.DefaultGrid,
			Years:        d.Years(today),
			LatestYear:   year,
			LatestMonth:  int(month),
		})
	}
	return desc
}
