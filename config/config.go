package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/aluiziolira/go-scrape-shop/models"
	"gopkg.in/yaml.v3"
)

// Config holds scraper configuration.
type Config struct {
	BaseURL         string
	Targets         []models.Target
	OutputDir       string
	LogFile         string
	SettleDelay     time.Duration
	ReappearTimeout time.Duration
	NavTimeout      time.Duration
	Headless        bool
	PageCacheSize   int
	MetricsAddr     string
	UserAgent       string
	Verbose         bool
}

// DefaultConfig returns defaults matching the demo target deployment.
func DefaultConfig() *Config {
	cfg := &Config{
		BaseURL:         "https://webscraper.io/test-sites/e-commerce/more/",
		OutputDir:       ".",
		LogFile:         "parser.log",
		SettleDelay:     5 * time.Second,
		ReappearTimeout: 5 * time.Second,
		NavTimeout:      60 * time.Second,
		Headless:        true,
		PageCacheSize:   8,
		MetricsAddr:     "",
		UserAgent:       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Verbose:         false,
	}
	targets, err := DefaultTargets(cfg.BaseURL)
	if err != nil {
		// The built-in base URL is constant and always parses.
		panic(fmt.Sprintf("default targets: %v", err))
	}
	cfg.Targets = targets
	return cfg
}

// DefaultTargets builds the fixed category table for a base listing URL.
// Order is significant: files are written in this order.
func DefaultTargets(baseURL string) ([]models.Target, error) {
	join := func(elem ...string) (string, error) {
		return url.JoinPath(baseURL, elem...)
	}

	computers, err := join("computers")
	if err != nil {
		return nil, fmt.Errorf("join category path: %w", err)
	}
	phones, err := join("phones")
	if err != nil {
		return nil, fmt.Errorf("join category path: %w", err)
	}
	laptops, err := join("computers", "laptops")
	if err != nil {
		return nil, fmt.Errorf("join category path: %w", err)
	}
	tablets, err := join("computers", "tablets")
	if err != nil {
		return nil, fmt.Errorf("join category path: %w", err)
	}
	touch, err := join("phones", "touch")
	if err != nil {
		return nil, fmt.Errorf("join category path: %w", err)
	}

	return []models.Target{
		{Name: "home", URL: baseURL, OutFile: "home.csv"},
		{Name: "computers", URL: computers, OutFile: "computers.csv"},
		{Name: "phones", URL: phones, OutFile: "phones.csv"},
		{Name: "laptops", URL: laptops, OutFile: "laptops.csv"},
		{Name: "tablets", URL: tablets, OutFile: "tablets.csv"},
		{Name: "touch", URL: touch, OutFile: "touch.csv"},
	}, nil
}

// LoadTargets reads a category table from a YAML file, replacing the
// built-in one.
func LoadTargets(path string) ([]models.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}
	var targets []models.Target
	if err := yaml.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("parse targets file %s: %w", path, err)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("targets file %s is empty", path)
	}
	return targets, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}
	for i, t := range c.Targets {
		if t.Name == "" {
			return fmt.Errorf("target %d missing name", i)
		}
		if t.URL == "" {
			return fmt.Errorf("target %q missing url", t.Name)
		}
		if t.OutFile == "" {
			return fmt.Errorf("target %q missing out_file", t.Name)
		}
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay cannot be negative")
	}
	if c.ReappearTimeout <= 0 {
		return fmt.Errorf("reappear timeout must be positive")
	}
	if c.NavTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be positive")
	}
	if c.PageCacheSize <= 0 {
		return fmt.Errorf("page cache size must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}

// EnvString reads a string environment variable, reporting presence.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment variable, reporting presence.
func EnvInt(key string) (int, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, true, nil
}

// EnvDuration reads a duration environment variable, reporting presence.
func EnvDuration(key string) (time.Duration, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return value, true, nil
}
