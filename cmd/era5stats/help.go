package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

var helpCredentials = &Command{
	UsageLine: "credentials",
	Short:     "locating the Climate Data Store API key",
	Long: `
Commands which retrieve data need a Climate Data Store API key. The key is
either "UID:APIKEY", sent using basic authentication, or a personal access
token sent in the PRIVATE-TOKEN header.

The key is looked up in this order:

  1. the -key flag
  2. the CDSAPI_KEY environment variable, after loading the file named by
     -env-file (default .env) if it exists
  3. the key: line of the cdsapi rc file named by -rc, which defaults to
     $CDSAPI_RC or ~/.cdsapirc

The API endpoint is taken from -url, CDSAPI_URL or the url: line of the rc
file in the same order.
`,
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: era5stats [global flags] command [arguments]\n\n")
	printCommands(true)
	fmt.Fprintf(os.Stderr, "\nglobal flags:\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func printCommands(runnable bool) {
	tw := tabwriter.NewWriter(os.Stderr, 0, 8, 2, ' ', 0)
	for _, cmd := range commands {
		if cmd.Runnable() == runnable {
			fmt.Fprintf(tw, "    %s\t%s\n", cmd.Name(), cmd.Short)
		}
	}
	tw.Flush()
}

// help implements the 'help' command.
func help(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Era5stats computes daily statistics of ERA5 reanalysis data.\n\n")
		fmt.Fprintf(os.Stderr, "The commands are:\n\n")
		printCommands(true)
		fmt.Fprintf(os.Stderr, "\nUse \"era5stats help [command]\" for more information about a command.\n\n")
		fmt.Fprintf(os.Stderr, "Additional help topics:\n\n")
		printCommands(false)
		fmt.Fprintf(os.Stderr, "\nUse \"era5stats help [topic]\" for more information about that topic.\n")
		return
	}
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: era5stats help command\n\nToo many arguments given.\n")
		os.Exit(2)
	}

	arg := args[0]
	for _, cmd := range commands {
		if cmd.Name() == arg {
			if cmd.Runnable() {
				fmt.Fprintf(os.Stderr, "usage: era5stats %s\n", cmd.UsageLine)
			}
			fmt.Fprintf(os.Stderr, "%s\n", strings.TrimRight(cmd.Long, "\n"))
			return
		}
	}

	fmt.Fprintf(os.Stderr, "Unknown help topic %#q. Run 'era5stats help'.\n", arg)
	os.Exit(2)
}
