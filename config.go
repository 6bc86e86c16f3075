package linkscan

import (
	"net/url"
	"strings"
	"time"
)

// Defaults applied by Config.WithDefaults.
const (
	DefaultMaxPages = 100
	DefaultDelay    = time.Second
	DefaultTimeout  = 10 * time.Second
	DefaultWorkers  = 5

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Config holds the settings for one scan.
type Config struct {
	BaseURL         string        `json:"baseUrl"`
	MaxPages        int           `json:"maxPages"`
	Delay           time.Duration `json:"delay"`
	Timeout         time.Duration `json:"timeout"`
	Workers         int           `json:"workers"`
	RespectRobots   bool          `json:"respectRobots"`
	UserAgent       string        `json:"userAgent"`
	SeedFromSitemap bool          `json:"seedFromSitemap"`
}

// Validate returns an error if the configuration cannot start a scan.
// A base URL without an http or https scheme is the only fatal condition.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return Errorf(EINVALID, "base URL required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return Errorf(EINVALID, "invalid base URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "base URL must start with http:// or https://: %q", c.BaseURL)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "base URL has no host: %q", c.BaseURL)
	}
	if c.MaxPages < 0 {
		return Errorf(EINVALID, "max pages must not be negative")
	}
	if c.Workers < 0 {
		return Errorf(EINVALID, "workers must not be negative")
	}
	return nil
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
// The base URL loses its trailing slash.
func (c Config) WithDefaults() Config {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.MaxPages == 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return c
}

// Domain returns the host the scan is scoped to.
func (c *Config) Domain() string {
	return Host(c.BaseURL)
}

// NewConfig returns a Config for baseURL with every setting at its default.
func NewConfig(baseURL string) Config {
	return Config{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		MaxPages:      DefaultMaxPages,
		Delay:         DefaultDelay,
		Timeout:       DefaultTimeout,
		Workers:       DefaultWorkers,
		RespectRobots: true,
		UserAgent:     DefaultUserAgent,
	}
}
