package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rtm0/era5stats/internal/catalogue"
)

var cmdCatalogue = &Command{
	UsageLine: "catalogue",
	Short:     "print the datasets, variables and options on offer",
	Long: `
Catalogue prints the datasets with their variables, product types, pressure
levels, grids and available years, and the accepted months, time zones,
statistics and frequencies, as JSON. The latest available month of each
dataset depends on today's date.
`,
}

func init() {
	cmdCatalogue.Run = runCatalogue // break init cycle
}

func runCatalogue(cmd *Command, args []string) {
	if len(args) != 0 {
		cmd.Usage()
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(catalogue.Describe(time.Now())); err != nil {
		fatal("Could not write the catalogue", err)
	}
}
