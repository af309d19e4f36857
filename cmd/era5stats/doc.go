/*
Era5stats computes daily statistics of ERA5 reanalysis data retrieved from
the Copernicus Climate Data Store.

Usage:

	era5stats [-log-level level] [-log-format text|json] command [arguments]

The commands are:

	daily       compute a daily statistic of one month
	point       extract a daily mean time series at a point
	catalogue   print the datasets, variables and options on offer
	serve       serve the calculations over HTTP
	export      insert a NetCDF file into Victoria Metrics

Use "era5stats help [command]" for more information about a command.

Additional help topics:

	credentials  locating the Climate Data Store API key

Use "era5stats help [topic]" for more information about that topic.
*/
package main
