package main

import (
	"flag"
	"time"

	"github.com/rtm0/era5stats/internal/cds"
)

// retrievalFlags are the Climate Data Store settings shared by the commands
// which retrieve data.
type retrievalFlags struct {
	cfg         cds.Config
	envFile     string
	rcFile      string
	concurrency int
}

func addRetrievalFlags(fs *flag.FlagSet) *retrievalFlags {
	rf := &retrievalFlags{cfg: cds.DefaultConfig()}
	fs.StringVar(&rf.cfg.URL, "url", cds.DefaultURL, "Climate Data Store API URL")
	fs.StringVar(&rf.cfg.Key, "key", "", "API key, UID:APIKEY or a personal access token (see 'era5stats help credentials')")
	fs.StringVar(&rf.envFile, "env-file", ".env", "dotenv file loaded before reading CDSAPI_KEY and CDSAPI_URL")
	fs.StringVar(&rf.rcFile, "rc", cds.DefaultRCFile(), "cdsapi rc file")
	fs.StringVar(&rf.cfg.WorkDir, "workdir", "", "directory receiving downloads; empty means the system temporary directory")
	fs.DurationVar(&rf.cfg.PollInterval, "poll", rf.cfg.PollInterval, "initial interval between task status polls")
	fs.DurationVar(&rf.cfg.MaxPollInterval, "max-poll", rf.cfg.MaxPollInterval, "maximum interval between task status polls")
	fs.DurationVar(&rf.cfg.Timeout, "timeout", rf.cfg.Timeout, "timeout of a single API call")
	fs.IntVar(&rf.cfg.RequestsPerMinute, "rpm", rf.cfg.RequestsPerMinute, "maximum retrieval submissions per minute; 0 disables pacing")
	fs.DurationVar(&rf.cfg.CacheTTL, "cache-ttl", time.Hour, "how long completed retrievals are reused; 0 disables caching")
	fs.IntVar(&rf.concurrency, "concurrency", 4, "number of retrievals in flight")
	return rf
}

// client creates a Climate Data Store client, exiting when no credentials
// are found.
func (rf *retrievalFlags) client() *cds.Client {
	if err := cds.LoadCredentials(&rf.cfg, rf.envFile, rf.rcFile); err != nil {
		fatal("Could not load Climate Data Store credentials", err)
	}
	rf.cfg.MaxConns = rf.concurrency
	c, err := cds.NewClient(logger, rf.cfg)
	if err != nil {
		fatal("Could not create a Climate Data Store client", err)
	}
	return c
}
