package application

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Hans-byte2/Hochzeitsapp/internal/api"
	"github.com/Hans-byte2/Hochzeitsapp/internal/config"
	"github.com/Hans-byte2/Hochzeitsapp/internal/flutter"
	"github.com/Hans-byte2/Hochzeitsapp/internal/signing"
	"github.com/Hans-byte2/Hochzeitsapp/internal/variant"
)

// Identity and toolchain settings of the app module.
const (
	Namespace      = "de.heartpebble.hochzeitsplaner"
	ApplicationID  = "de.heartpebble.hochzeitsplaner"
	JavaVersion    = 11
	FlutterSource  = "../.."
	DesugarLibrary = "com.android.tools:desugar_jdk_libs:1.2.2"
)

// Build is the resolved release configuration of one invocation.
type Build struct {
	ProjectDir  string
	Credentials signing.Credentials
	Versions    flutter.Versions
	Module      *variant.Module
}

// Bootstrap runs the configuration pipeline. The key properties file is
// loaded first so a missing file aborts before any variant is configured.
func Bootstrap(cfg config.Config, logger *zap.Logger) (*Build, error) {
	projectDir := resolveProjectPath(cfg.ProjectDir)
	keyPath := signing.ProjectPath(projectDir, cfg.KeyPropertiesPath)

	creds, err := signing.LoadProject(projectDir, cfg.KeyPropertiesPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("key properties loaded", zap.String("path", keyPath), zap.Object("credentials", creds))

	if missing := creds.Missing(); len(missing) > 0 {
		if cfg.Strict {
			return nil, fmt.Errorf("%s: %w", keyPath, creds.Validate())
		}
		logger.Warn("key properties incomplete; signing may fail later",
			zap.String("path", keyPath),
			zap.Strings("missing", missing),
		)
	}

	versions, err := flutter.Resolve(projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve flutter versions: %w", err)
	}

	module, err := variant.NewModule(ModuleSpec(projectDir, cfg.AppModuleDir, versions))
	if err != nil {
		return nil, fmt.Errorf("configure module: %w", err)
	}
	if err := module.AttachSigningProfile(variant.Release, creds); err != nil {
		return nil, fmt.Errorf("attach release signing: %w", err)
	}

	logger.Info("release configuration resolved",
		zap.String("application_id", ApplicationID),
		zap.String("version_name", versions.VersionName),
		zap.Int("version_code", versions.VersionCode),
		zap.Bool("signing_complete", creds.Complete()),
	)

	return &Build{
		ProjectDir:  projectDir,
		Credentials: creds,
		Versions:    versions,
		Module:      module,
	}, nil
}

// ModuleSpec describes the app module under projectDir.
func ModuleSpec(projectDir, appModuleDir string, versions flutter.Versions) variant.Spec {
	return variant.Spec{
		Namespace:             Namespace,
		ApplicationID:         ApplicationID,
		Versions:              versions,
		JavaVersion:           JavaVersion,
		CoreLibraryDesugaring: true,
		MultiDex:              true,
		FlutterSource:         FlutterSource,
		Dependencies:          []string{DesugarLibrary},
		ModuleDir:             filepath.Join(projectDir, appModuleDir),
	}
}

// App encapsulates the resolved build and the inspection HTTP server.
type App struct {
	build   *Build
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New bootstraps the build and wires the inspection server around it.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	build, err := Bootstrap(cfg, logger)
	if err != nil {
		return nil, err
	}

	handler := api.NewHandler(build.Module)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		build:   build,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, BuildRootHandler(apiRouter)),
	}, nil
}

// BuildRootHandler mounts the API under /api/ and answers 404 elsewhere.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.NotFoundHandler())
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Build returns the configuration resolved at startup.
func (a *App) Build() *Build {
	return a.build
}

// resolveProjectPath locates a relative project directory by walking up from
// the working directory. When nothing matches, the path is returned as given
// so diagnostics name the location the user asked for.
func resolveProjectPath(relative string) string {
	if filepath.IsAbs(relative) {
		return relative
	}

	dir, err := os.Getwd()
	if err != nil {
		return relative
	}

	for {
		candidate := filepath.Join(dir, relative)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return relative
}
