package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/suggestd/internal/domain"
	"github.com/kailas-cloud/suggestd/internal/domain/index"
	"github.com/kailas-cloud/suggestd/internal/domain/suggest/options"
)

// Config holds the suggestd API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Index    IndexConfig    `yaml:"index"`
	Suggest  SuggestConfig  `yaml:"suggest"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis (default)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds index naming and write settings.
type IndexConfig struct {
	KeyPrefix    string `yaml:"key_prefix"`
	MaxBatchSize int    `yaml:"max_batch_size"`
}

// SuggestConfig holds the default query options applied to every suggestion request.
// The limits are pointers so that an explicit 0 is rejected instead of defaulted.
type SuggestConfig struct {
	MinPrefixLength              *int     `yaml:"min_prefix_length"`
	ResultLimit                  *int     `yaml:"result_limit"`
	MaxResultLimit               *int     `yaml:"max_result_limit"`
	RestrictSearchFields         []string `yaml:"restrict_search_fields"`
	RestrictSearchFieldsOperator string   `yaml:"restrict_search_fields_operator"`
	ReturnFields                 []string `yaml:"return_fields"`
	StrictParsing                bool     `yaml:"strict_parsing"`
	DefaultBase                  string   `yaml:"default_base"`
}

// Options converts the section into validated query options.
func (s SuggestConfig) Options() (options.Options, error) {
	op, err := options.ParseOperator(s.RestrictSearchFieldsOperator)
	if err != nil {
		return options.Options{}, fmt.Errorf("suggest.restrict_search_fields_operator: %w", err)
	}
	opts, err := options.New(
		intOr(s.MinPrefixLength, options.DefaultMinPrefixLength),
		intOr(s.ResultLimit, options.DefaultResultLimit),
		s.RestrictSearchFields, op,
	)
	if err != nil {
		return options.Options{}, fmt.Errorf("suggest: %w", err)
	}
	return opts, nil
}

// MaxLimit returns the cap on the per-request limit parameter.
func (s SuggestConfig) MaxLimit() int {
	return intOr(s.MaxResultLimit, defaultMaxResultLimit)
}

const defaultMaxResultLimit = 50

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func intPtr(v int) *int { return &v }

// Base returns the configured default index base.
func (s SuggestConfig) Base() (index.Base, error) {
	b, err := index.ParseBase(s.DefaultBase)
	if err != nil {
		return "", fmt.Errorf("suggest.default_base: %w", err)
	}
	return b, nil
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands ${VAR} references in data, decodes it, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "suggestd:"
	}
	if c.Index.MaxBatchSize <= 0 {
		c.Index.MaxBatchSize = 100
	}
	// only absent keys are defaulted; explicit values are left for Validate
	if c.Suggest.MinPrefixLength == nil {
		c.Suggest.MinPrefixLength = intPtr(options.DefaultMinPrefixLength)
	}
	if c.Suggest.ResultLimit == nil {
		c.Suggest.ResultLimit = intPtr(options.DefaultResultLimit)
	}
	if c.Suggest.MaxResultLimit == nil {
		c.Suggest.MaxResultLimit = intPtr(defaultMaxResultLimit)
	}
	if c.Suggest.RestrictSearchFieldsOperator == "" {
		c.Suggest.RestrictSearchFieldsOperator = string(options.DefaultOperator)
	}
	if c.Suggest.DefaultBase == "" {
		c.Suggest.DefaultBase = string(index.BaseStable)
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Driver != "redis" {
		return fmt.Errorf("database.driver must be \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	opts, err := c.Suggest.Options()
	if err != nil {
		return err
	}
	if maxLimit := c.Suggest.MaxLimit(); maxLimit < 1 {
		return fmt.Errorf("%w: suggest.max_result_limit must be >= 1, got %d",
			domain.ErrInvalidConfiguration, maxLimit)
	}
	if opts.ResultLimit() > c.Suggest.MaxLimit() {
		return fmt.Errorf("suggest.result_limit (%d) exceeds suggest.max_result_limit (%d)",
			opts.ResultLimit(), c.Suggest.MaxLimit())
	}
	if _, err := c.Suggest.Base(); err != nil {
		return err
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
