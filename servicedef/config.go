// Package servicedef describes the API under test: where it is, how long to wait for it, how
// many times to retry, and the path templates of the endpoints that scenarios call by name.
package servicedef

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// IDPlaceholder is the token in an endpoint template that is replaced with an entity ID.
const IDPlaceholder = "{id}"

const (
	DefaultTimeout       = 30 * time.Second
	DefaultRetryAttempts = 3
)

// Config is the resolved API definition.
type Config struct {
	APIBaseURL    string
	APIVersion    string
	Timeout       time.Duration
	RetryAttempts int
	Endpoints     map[string]string
}

// fileConfig is the on-disk shape. Timeout is untyped because it may be a number of seconds
// or a duration string.
type fileConfig struct {
	APIBaseURL    string            `json:"api_base_url" yaml:"api_base_url"`
	APIVersion    string            `json:"api_version" yaml:"api_version"`
	Timeout       interface{}       `json:"timeout" yaml:"timeout"`
	RetryAttempts *int              `json:"retry_attempts" yaml:"retry_attempts"`
	Endpoints     map[string]string `json:"endpoints" yaml:"endpoints"`
}

// Load reads a configuration file. Files ending in .yaml or .yml are parsed as YAML, anything
// else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes configuration data in the given format ("json" or "yaml"), applies defaults,
// and validates the result.
func Parse(data []byte, format string) (*Config, error) {
	var raw fileConfig
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	cfg := &Config{
		APIBaseURL:    raw.APIBaseURL,
		APIVersion:    raw.APIVersion,
		Timeout:       DefaultTimeout,
		RetryAttempts: DefaultRetryAttempts,
		Endpoints:     make(map[string]string, len(raw.Endpoints)),
	}
	for name, template := range raw.Endpoints {
		cfg.Endpoints[name] = template
	}
	if raw.RetryAttempts != nil {
		cfg.RetryAttempts = *raw.RetryAttempts
	}
	if raw.Timeout != nil {
		timeout, err := parseTimeout(raw.Timeout)
		if err != nil {
			return nil, err
		}
		cfg.Timeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseTimeout(value interface{}) (time.Duration, error) {
	switch v := value.(type) {
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q: %w", v, err)
		}
		return d, nil
	default:
		return 0, fmt.Errorf("invalid timeout value %v", value)
	}
}

// Validate checks the fields that the harness cannot run without.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base_url must be an http or https URL, got %q", c.APIBaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry_attempts cannot be negative, got %d", c.RetryAttempts)
	}
	for _, name := range c.EndpointNames() {
		if strings.Count(c.Endpoints[name], IDPlaceholder) > 1 {
			return fmt.Errorf("endpoint %q has more than one %s placeholder", name, IDPlaceholder)
		}
	}
	return nil
}

// EndpointNames returns the configured endpoint names in sorted order.
func (c *Config) EndpointNames() []string {
	names := make([]string, 0, len(c.Endpoints))
	for name := range c.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the path of a named endpoint that takes no entity ID.
func (c *Config) Path(name string) (string, error) {
	template, ok := c.Endpoints[name]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q", name)
	}
	if strings.Contains(template, IDPlaceholder) {
		return "", fmt.Errorf("endpoint %q requires an entity ID", name)
	}
	return template, nil
}

// EntityPath returns the path of a named endpoint with its placeholder replaced by the
// path-escaped id.
func (c *Config) EntityPath(name, id string) (string, error) {
	template, ok := c.Endpoints[name]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q", name)
	}
	if !strings.Contains(template, IDPlaceholder) {
		return "", fmt.Errorf("endpoint %q does not take an entity ID", name)
	}
	return strings.Replace(template, IDPlaceholder, url.PathEscape(id), 1), nil
}
