package cds

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// ErrMissingCredentials is returned when no API key could be found.
var ErrMissingCredentials = errors.New("missing CDS API credentials")

// DefaultURL is the Climate Data Store API endpoint.
const DefaultURL = "https://cds.climate.copernicus.eu/api/v2"

// Environment variables read by LoadCredentials.
const (
	EnvURL = "CDSAPI_URL"
	EnvKey = "CDSAPI_KEY"
)

// Config holds the settings of a Client.
type Config struct {
	URL string
	// Key is "UID:APIKEY" or a personal access token.
	Key string

	PollInterval      time.Duration
	MaxPollInterval   time.Duration
	Timeout           time.Duration
	RequestsPerMinute int
	CacheTTL          time.Duration
	MaxConns          int
	// WorkDir receives downloads while they are decoded. Empty means the
	// system temporary directory.
	WorkDir string
}

// DefaultConfig returns the settings used when no flag overrides them.
func DefaultConfig() Config {
	return Config{
		URL:               DefaultURL,
		PollInterval:      time.Second,
		MaxPollInterval:   time.Minute,
		Timeout:           time.Minute,
		RequestsPerMinute: 30,
		CacheTTL:          time.Hour,
		MaxConns:          4,
	}
}

// LoadCredentials fills in URL and Key when they are unset. The process
// environment is consulted first, after loading envFile with godotenv if it
// exists, then the cdsapi rc file (url: and key: lines).
func LoadCredentials(cfg *Config, envFile, rcFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return errors.Wrapf(err, "loading %s", envFile)
		}
	}
	if cfg.Key == "" {
		cfg.Key = os.Getenv(EnvKey)
	}
	if v := os.Getenv(EnvURL); v != "" && (cfg.URL == "" || cfg.URL == DefaultURL) {
		cfg.URL = v
	}

	if cfg.Key == "" && rcFile != "" {
		rc, err := readRC(rcFile)
		if err != nil && !os.IsNotExist(errors.Cause(err)) {
			return err
		}
		cfg.Key = rc["key"]
		if u := rc["url"]; u != "" && (cfg.URL == "" || cfg.URL == DefaultURL) {
			cfg.URL = u
		}
	}

	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Key == "" {
		return ErrMissingCredentials
	}
	return nil
}

// DefaultRCFile returns the location of the cdsapi rc file.
func DefaultRCFile() string {
	if v := os.Getenv("CDSAPI_RC"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cdsapirc")
}

func readRC(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	values := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return values, nil
}
