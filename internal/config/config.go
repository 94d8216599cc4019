package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Hans-byte2/Hochzeitsapp/internal/signing"
)

const (
	defaultProjectDir     = "android"
	defaultAppModuleDir   = "app"
	defaultLogLevel       = "info"
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > Environment variables > YAML config > Defaults
type Config struct {
	// ProjectDir is the Android Gradle root holding key.properties.
	ProjectDir string
	// KeyPropertiesPath is relative to ProjectDir unless absolute.
	KeyPropertiesPath string
	// AppModuleDir is relative to ProjectDir.
	AppModuleDir string
	// Strict rejects key.properties files that omit any recognised key.
	Strict   bool
	LogLevel string

	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	ProjectDir           string        `yaml:"project_dir"`
	KeyProperties        string        `yaml:"key_properties"`
	AppModuleDir         string        `yaml:"app_module_dir"`
	Strict               *bool         `yaml:"strict"`
	LogLevel             string        `yaml:"log_level"`
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile        string
	ProjectDir        *string
	KeyPropertiesPath *string
	Strict            *bool
	LogLevel          *string
	Port              *string
	RateLimitRPS      *float64
	RateLimitBurst    *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > Environment variables > YAML config > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	applyEnvConfig(&cfg)

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		ProjectDir:           defaultProjectDir,
		KeyPropertiesPath:    signing.DefaultPath,
		AppModuleDir:         defaultAppModuleDir,
		LogLevel:             defaultLogLevel,
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	setString(&cfg.ProjectDir, yamlCfg.ProjectDir)
	setString(&cfg.KeyPropertiesPath, yamlCfg.KeyProperties)
	setString(&cfg.AppModuleDir, yamlCfg.AppModuleDir)
	setString(&cfg.LogLevel, yamlCfg.LogLevel)
	setString(&cfg.Port, yamlCfg.Port)

	if yamlCfg.Strict != nil {
		cfg.Strict = *yamlCfg.Strict
	}
	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}
	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	setString(&cfg.ProjectDir, os.Getenv("RELEASECFG_PROJECT_DIR"))
	setString(&cfg.KeyPropertiesPath, os.Getenv("RELEASECFG_KEY_PROPERTIES"))
	setString(&cfg.AppModuleDir, os.Getenv("RELEASECFG_APP_MODULE_DIR"))
	setString(&cfg.LogLevel, strings.ToLower(os.Getenv("RELEASECFG_LOG_LEVEL")))
	setString(&cfg.Port, os.Getenv("PORT"))

	if strict := strings.TrimSpace(os.Getenv("RELEASECFG_STRICT")); strict != "" {
		if value, err := strconv.ParseBool(strict); err == nil {
			cfg.Strict = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.ProjectDir != nil {
		setString(&cfg.ProjectDir, *overrides.ProjectDir)
	}
	if overrides.KeyPropertiesPath != nil {
		setString(&cfg.KeyPropertiesPath, *overrides.KeyPropertiesPath)
	}
	if overrides.LogLevel != nil {
		setString(&cfg.LogLevel, strings.ToLower(*overrides.LogLevel))
	}
	if overrides.Port != nil {
		setString(&cfg.Port, *overrides.Port)
	}
	if overrides.Strict != nil {
		cfg.Strict = *overrides.Strict
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.ProjectDir) == "" {
		return fmt.Errorf("project directory cannot be empty")
	}
	if strings.TrimSpace(cfg.KeyPropertiesPath) == "" {
		return fmt.Errorf("key properties path cannot be empty")
	}
	if _, ok := validLogLevels[cfg.LogLevel]; !ok {
		return fmt.Errorf("log level must be one of debug, info, warn, error; got %q", cfg.LogLevel)
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
