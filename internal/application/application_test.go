package application

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Hans-byte2/Hochzeitsapp/internal/config"
	"github.com/Hans-byte2/Hochzeitsapp/internal/signing"
	"github.com/Hans-byte2/Hochzeitsapp/internal/variant"
)

const fullKeyProperties = "storePassword=store-secret\nkeyPassword=key-secret\nkeyAlias=upload\nstoreFile=upload-keystore.jks\n"

// newProject creates <root>/pubspec.yaml and <root>/android and returns the android directory.
func newProject(t *testing.T, keyProperties string) string {
	t.Helper()

	root := t.TempDir()
	androidDir := filepath.Join(root, "android")
	if err := os.MkdirAll(filepath.Join(androidDir, "app"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "pubspec.yaml"), []byte("name: hochzeitsplaner\nversion: 1.0.0+3\n"), 0o600); err != nil {
		t.Fatalf("write pubspec: %v", err)
	}
	if keyProperties != "" {
		if err := os.WriteFile(filepath.Join(androidDir, signing.DefaultPath), []byte(keyProperties), 0o600); err != nil {
			t.Fatalf("write key.properties: %v", err)
		}
	}
	return androidDir
}

func TestBootstrapResolvesReleaseConfiguration(t *testing.T) {
	projectDir := newProject(t, fullKeyProperties)
	cfg := baseTestConfig(":0", projectDir)

	build, err := Bootstrap(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}

	if build.Versions.VersionName != "1.0.0" || build.Versions.VersionCode != 3 {
		t.Fatalf("unexpected versions %+v", build.Versions)
	}

	release, err := build.Module.Variant(variant.Release)
	if err != nil {
		t.Fatalf("Variant returned error: %v", err)
	}
	if release.SigningConfig != variant.Release {
		t.Fatalf("expected release signing profile, got %q", release.SigningConfig)
	}

	profile, ok := build.Module.SigningProfile(variant.Release)
	if !ok {
		t.Fatalf("expected release profile")
	}
	if want := filepath.Join(projectDir, "app", "upload-keystore.jks"); profile.StoreFile != want {
		t.Fatalf("expected store file %s, got %s", want, profile.StoreFile)
	}

	spec := build.Module.Spec()
	if spec.ApplicationID != ApplicationID || spec.JavaVersion != JavaVersion || !spec.CoreLibraryDesugaring {
		t.Fatalf("unexpected module spec %+v", spec)
	}
}

func TestBootstrapFailsFastWithoutKeyProperties(t *testing.T) {
	projectDir := newProject(t, "")
	cfg := baseTestConfig(":0", projectDir)

	core, logs := observer.New(zapcore.DebugLevel)
	_, err := Bootstrap(cfg, zap.New(core))
	if !errors.Is(err, signing.ErrKeyPropertiesMissing) {
		t.Fatalf("expected ErrKeyPropertiesMissing, got %v", err)
	}

	var missing *signing.MissingFileError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *signing.MissingFileError, got %T", err)
	}
	if want := filepath.Join(projectDir, signing.DefaultPath); missing.Path != want {
		t.Fatalf("expected path %s, got %s", want, missing.Path)
	}
	if logs.FilterMessage("release configuration resolved").Len() != 0 {
		t.Fatalf("pipeline continued past the missing key properties file")
	}
}

func TestBootstrapToleratesPartialCredentials(t *testing.T) {
	projectDir := newProject(t, "keyAlias=foo\n")
	cfg := baseTestConfig(":0", projectDir)

	core, logs := observer.New(zapcore.InfoLevel)
	build, err := Bootstrap(cfg, zap.New(core))
	if err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if signing.Value(build.Credentials.KeyAlias) != "foo" {
		t.Fatalf("unexpected key alias %q", signing.Value(build.Credentials.KeyAlias))
	}
	if logs.FilterMessage("key properties incomplete; signing may fail later").Len() != 1 {
		t.Fatalf("expected a warning about missing keys")
	}
}

func TestBootstrapStrictRejectsPartialCredentials(t *testing.T) {
	projectDir := newProject(t, "keyAlias=foo\n")
	cfg := baseTestConfig(":0", projectDir)
	cfg.Strict = true

	_, err := Bootstrap(cfg, zaptest.NewLogger(t))
	if !errors.Is(err, signing.ErrIncompleteCredentials) {
		t.Fatalf("expected ErrIncompleteCredentials, got %v", err)
	}
}

func TestBootstrapNeverLogsPasswords(t *testing.T) {
	projectDir := newProject(t, fullKeyProperties)
	cfg := baseTestConfig(":0", projectDir)

	core, logs := observer.New(zapcore.DebugLevel)
	if _, err := Bootstrap(cfg, zap.New(core)); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}

	for _, entry := range logs.All() {
		for key, value := range entry.ContextMap() {
			if nested, ok := value.(map[string]interface{}); ok {
				for _, v := range nested {
					if v == "store-secret" || v == "key-secret" {
						t.Fatalf("password leaked in %q field %s", entry.Message, key)
					}
				}
			}
			if value == "store-secret" || value == "key-secret" {
				t.Fatalf("password leaked in %q field %s", entry.Message, key)
			}
		}
	}
}

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085", newProject(t, fullKeyProperties))

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if app.server == nil || app.router == nil || app.handler == nil || app.Build() == nil {
		t.Fatalf("expected server, router, handler and build to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090", "android")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestBuildRootHandler(t *testing.T) {
	apiInvoked := false
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiInvoked = true
		w.WriteHeader(http.StatusNoContent)
	})
	handler := BuildRootHandler(apiHandler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 outside /api/, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusNoContent || !apiInvoked {
		t.Fatalf("expected API traffic to be forwarded, got %d", rec.Code)
	}
}

func TestResolveProjectPathFindsParentDirectory(t *testing.T) {
	path := resolveProjectPath("internal")
	if !filepath.IsAbs(path) {
		t.Fatalf("expected internal/ to be located by walking up, got %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func TestResolveProjectPathUnknownTarget(t *testing.T) {
	if got := resolveProjectPath("definitely-not-a-real-dir"); got != "definitely-not-a-real-dir" {
		t.Fatalf("expected unresolved path to be returned unchanged, got %s", got)
	}
}

func baseTestConfig(port, projectDir string) config.Config {
	return config.Config{
		ProjectDir:           projectDir,
		KeyPropertiesPath:    signing.DefaultPath,
		AppModuleDir:         "app",
		LogLevel:             "info",
		Port:                 port,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}
