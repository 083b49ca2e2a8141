package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/rflorenc/catalog-console/internal/models"
)

// Defaults applied to anything left unset by flags and the config file.
const (
	DefaultListen     = ":8080"
	DefaultBaseURL    = "http://localhost:8080/api"
	DefaultHealthPath = "/health"
	DefaultTimeout    = 30 * time.Second
)

// Config holds all configuration (CLI flags + config file).
type Config struct {
	Listen     string        `yaml:"listen"`
	BaseURL    string        `yaml:"base_url" validate:"required,url"`
	HealthPath string        `yaml:"health_path"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
	Insecure   bool          `yaml:"insecure"`
	CACertFile string        `yaml:"ca_cert_file"`
	LogLevel   string        `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	LogFormat  string        `yaml:"log_format" validate:"omitempty,oneof=text json"`

	// internal: path to config file (from CLI flag)
	configFile string
}

var validate = newValidator()

// newValidator reports errors under the YAML key names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return sf.Name
		}
		return name
	})
	return v
}

// RegisterFlags binds the config to fs. Flags default to empty so that
// file values and defaults can be told apart from explicit flags.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.configFile, "config", "", "Path to config file (YAML)")
	fs.StringVar(&c.Listen, "listen", "", "HTTP listen address (default "+DefaultListen+")")
	fs.StringVar(&c.BaseURL, "base-url", "", "Backend API root (default "+DefaultBaseURL+")")
	fs.StringVar(&c.HealthPath, "health-path", "", "Backend health path, relative to the API root")
	fs.DurationVar(&c.Timeout, "timeout", 0, "Per-request timeout (default 30s)")
	fs.BoolVar(&c.Insecure, "insecure", false, "Skip TLS verification")
	fs.StringVar(&c.CACertFile, "ca-cert", "", "PEM file with the backend's CA certificate")
	fs.StringVar(&c.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", "", "Log format: text or json")
}

// Resolve overlays the config file (if any) under explicitly set flags,
// applies defaults and validates the result.
func (c *Config) Resolve(fs *pflag.FlagSet) error {
	if c.configFile != "" {
		if err := c.loadFile(c.configFile, fs); err != nil {
			return err
		}
	}

	// Apply defaults for anything still unset
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.HealthPath == "" {
		c.HealthPath = DefaultHealthPath
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}

	return c.Validate()
}

// Validate checks the resolved configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Backend returns the backend described by the config.
func (c *Config) Backend() (*models.Backend, error) {
	b := &models.Backend{BaseURL: c.BaseURL, Insecure: c.Insecure}
	if c.CACertFile != "" {
		pem, err := os.ReadFile(c.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", c.CACertFile, err)
		}
		b.CACert = string(pem)
	}
	return b, nil
}

// loadFile reads a YAML config file. Values from the file are only applied
// if the corresponding CLI flag was not explicitly set.
func (c *Config) loadFile(path string, fs *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	setString := func(flag string, dst *string, v string) {
		if !changed(fs, flag) && v != "" {
			*dst = v
		}
	}
	setString("listen", &c.Listen, file.Listen)
	setString("base-url", &c.BaseURL, file.BaseURL)
	setString("health-path", &c.HealthPath, file.HealthPath)
	setString("ca-cert", &c.CACertFile, file.CACertFile)
	setString("log-level", &c.LogLevel, file.LogLevel)
	setString("log-format", &c.LogFormat, file.LogFormat)
	if !changed(fs, "timeout") && file.Timeout != 0 {
		c.Timeout = file.Timeout
	}
	if !changed(fs, "insecure") && file.Insecure {
		c.Insecure = true
	}
	return nil
}

func changed(fs *pflag.FlagSet, name string) bool {
	if fs == nil {
		return false
	}
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
