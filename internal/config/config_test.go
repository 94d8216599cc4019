package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RELEASECFG_PROJECT_DIR",
		"RELEASECFG_KEY_PROPERTIES",
		"RELEASECFG_APP_MODULE_DIR",
		"RELEASECFG_LOG_LEVEL",
		"RELEASECFG_STRICT",
		"PORT",
		"RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "releasecfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ProjectDir != defaultProjectDir {
		t.Fatalf("expected default project dir %s, got %s", defaultProjectDir, cfg.ProjectDir)
	}
	if cfg.KeyPropertiesPath != "key.properties" {
		t.Fatalf("expected key.properties, got %s", cfg.KeyPropertiesPath)
	}
	if cfg.AppModuleDir != defaultAppModuleDir {
		t.Fatalf("expected app module dir %s, got %s", defaultAppModuleDir, cfg.AppModuleDir)
	}
	if cfg.Strict {
		t.Fatalf("expected tolerant mode by default")
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RELEASECFG_PROJECT_DIR", "/work/android")
	t.Setenv("RELEASECFG_STRICT", "true")
	t.Setenv("RELEASECFG_LOG_LEVEL", "DEBUG")
	t.Setenv("PORT", "9000")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ProjectDir != "/work/android" {
		t.Fatalf("expected overridden project dir, got %s", cfg.ProjectDir)
	}
	if !cfg.Strict {
		t.Fatalf("expected strict mode from environment")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected debug log level, got %s", cfg.LogLevel)
	}
	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
}

func TestLoadYAMLThenEnvThenCLI(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, `
project_dir: mobile/android
key_properties: signing/key.properties
strict: true
log_level: warn
enable_request_logging: false
read_header_timeout: 2s
rate_limit:
  rps: 0
  burst: 0
`)
	t.Setenv("RELEASECFG_KEY_PROPERTIES", "env.properties")

	projectDir := "cli/android"
	strict := false
	cfg, err := Load(&CLIOverrides{
		ConfigFile: path,
		ProjectDir: &projectDir,
		Strict:     &strict,
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ProjectDir != projectDir {
		t.Fatalf("expected CLI project dir, got %s", cfg.ProjectDir)
	}
	if cfg.KeyPropertiesPath != "env.properties" {
		t.Fatalf("expected env key properties path, got %s", cfg.KeyPropertiesPath)
	}
	if cfg.Strict {
		t.Fatalf("expected CLI to disable strict mode")
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected YAML log level, got %s", cfg.LogLevel)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected YAML to disable request logging")
	}
	if cfg.ReadHeaderTimeout != 2*time.Second {
		t.Fatalf("expected YAML read header timeout, got %s", cfg.ReadHeaderTimeout)
	}
	if cfg.RateLimitRPS != 0 || cfg.RateLimitBurst != 0 {
		t.Fatalf("expected rate limit disabled, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadYAMLOmittedBoolsKeepDefaults(t *testing.T) {
	clearEnv(t)
	path := writeYAML(t, "port: \"7000\"\n")

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.EnableRequestLogging {
		t.Fatalf("expected request logging to stay enabled")
	}
	if cfg.RateLimitRPS != defaultRateLimitRPS {
		t.Fatalf("expected default rate limit, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
			t.Fatalf("expected error for missing config file")
		}
	})

	t.Run("invalid duration", func(t *testing.T) {
		clearEnv(t)
		path := writeYAML(t, "write_timeout: soon\n")
		if _, err := Load(&CLIOverrides{ConfigFile: path}); err == nil {
			t.Fatalf("expected error for invalid duration")
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		clearEnv(t)
		level := "verbose"
		if _, err := Load(&CLIOverrides{LogLevel: &level}); err == nil {
			t.Fatalf("expected error for invalid log level")
		}
	})
}
