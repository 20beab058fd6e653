// Package config loads and validates the adapter configuration from YAML
// files and environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Configuration is the complete adapter configuration.
type Configuration struct {
	Global   GlobalConfig   `yaml:"global"`
	AWS      AWSConfig      `yaml:"aws"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Wait     WaitConfig     `yaml:"wait"`
}

// GlobalConfig holds process-wide settings.
type GlobalConfig struct {
	LogLevel       string `yaml:"log_level"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// AWSConfig holds the backend session settings. Credentials are optional;
// when absent the SDK's default provider chain resolves them.
type AWSConfig struct {
	Region          string `yaml:"region"`
	EndpointURL     string `yaml:"endpoint_url"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	MaxRetries      int    `yaml:"max_retries"`
}

// DefaultsConfig holds per-action fallbacks applied when the caller omits
// the corresponding optional parameter.
type DefaultsConfig struct {
	InstanceType string `yaml:"instance_type"`
	AMI          string `yaml:"ami"`
	VolumeType   string `yaml:"volume_type"`
}

// WaitConfig bounds the create_worker wait-for-running poll.
type WaitConfig struct {
	Enabled      bool          `yaml:"enabled"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Timeout      time.Duration `yaml:"timeout"`
}

// NewDefault returns a configuration with sensible defaults.
func NewDefault() *Configuration {
	return &Configuration{
		Global: GlobalConfig{
			LogLevel:       "INFO",
			MetricsEnabled: true,
		},
		AWS: AWSConfig{
			Region:     "us-east-1",
			MaxRetries: 3,
		},
		Defaults: DefaultsConfig{
			InstanceType: "t2.micro",
			AMI:          "ami-0c55b159cbfafe1f0",
			VolumeType:   "gp2",
		},
		Wait: WaitConfig{
			Enabled:      true,
			PollInterval: 2 * time.Second,
			Timeout:      3 * time.Minute,
		},
	}
}

// LoadFromFile loads configuration from a YAML file.
func (c *Configuration) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnv applies environment variable overrides. Standard AWS variables
// take effect alongside the CPI_AWS_* set so the adapter behaves like any
// other SDK consumer.
func (c *Configuration) LoadFromEnv() error {
	if val := os.Getenv("CPI_AWS_LOG_LEVEL"); val != "" {
		c.Global.LogLevel = val
	}
	if val := os.Getenv("CPI_AWS_METRICS_ENABLED"); val != "" {
		c.Global.MetricsEnabled = strings.ToLower(val) == "true"
	}

	if val := os.Getenv("AWS_REGION"); val != "" {
		c.AWS.Region = val
	}
	if val := os.Getenv("AWS_ENDPOINT_URL"); val != "" {
		c.AWS.EndpointURL = val
	}
	if val := os.Getenv("CPI_AWS_MAX_RETRIES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.AWS.MaxRetries = n
		}
	}

	if val := os.Getenv("CPI_AWS_DEFAULT_INSTANCE_TYPE"); val != "" {
		c.Defaults.InstanceType = val
	}
	if val := os.Getenv("CPI_AWS_DEFAULT_AMI"); val != "" {
		c.Defaults.AMI = val
	}
	if val := os.Getenv("CPI_AWS_DEFAULT_VOLUME_TYPE"); val != "" {
		c.Defaults.VolumeType = val
	}

	if val := os.Getenv("CPI_AWS_WAIT_ENABLED"); val != "" {
		c.Wait.Enabled = strings.ToLower(val) == "true"
	}
	if val := os.Getenv("CPI_AWS_WAIT_POLL_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Wait.PollInterval = d
		}
	}
	if val := os.Getenv("CPI_AWS_WAIT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Wait.Timeout = d
		}
	}

	return nil
}

// Validate checks the configuration for consistency.
func (c *Configuration) Validate() error {
	if c.AWS.Region == "" {
		return fmt.Errorf("aws region must not be empty")
	}
	if c.AWS.MaxRetries < 0 {
		return fmt.Errorf("aws max_retries must not be negative")
	}
	if c.AWS.AccessKeyID != "" && c.AWS.SecretAccessKey == "" {
		return fmt.Errorf("access_key_id set without secret_access_key")
	}

	switch strings.ToUpper(c.Global.LogLevel) {
	case "", "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("invalid log level %q", c.Global.LogLevel)
	}

	if c.Wait.Enabled {
		if c.Wait.PollInterval <= 0 {
			return fmt.Errorf("wait poll_interval must be positive")
		}
		if c.Wait.Timeout < c.Wait.PollInterval {
			return fmt.Errorf("wait timeout must be at least the poll interval")
		}
	}

	return nil
}

// Load builds the effective configuration: defaults, then the optional file,
// then environment overrides, then validation. An empty path skips the file
// step.
func Load(path string) (*Configuration, error) {
	cfg := NewDefault()

	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
