package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/Hans-byte2/Hochzeitsapp/internal/config"
	"github.com/Hans-byte2/Hochzeitsapp/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	kingpinApp := kingpin.New("releasecfg", "Release signing configuration for the Android app module - loads key.properties and fails fast when it is missing")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	projectDir := kingpinApp.Flag("project-dir", "Android project directory containing key.properties").String()
	keyProperties := kingpinApp.Flag("key-properties", "Key properties path relative to the project directory").String()
	var strictSet bool
	strict := kingpinApp.Flag("strict", "Reject key.properties files that omit any signing key").IsSetByUser(&strictSet).Bool()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()

	checkCmd := kingpinApp.Command("check", "Load key.properties and resolve the release configuration").Default()
	showCmd := kingpinApp.Command("show", "Print the resolved module configuration with passwords redacted")
	format := showCmd.Flag("format", "Output format (yaml, json)").Default(formatYAML).Enum(formatYAML, formatJSON)
	serveCmd := kingpinApp.Command("serve", "Serve the resolved configuration read-only over HTTP")
	port := serveCmd.Flag("port", "HTTP port exposed by the inspection server").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed per client (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity per client (set 0 to disable)").Default("-1").Int()

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *projectDir != "" {
		overrides.ProjectDir = projectDir
	}

	if *keyProperties != "" {
		overrides.KeyPropertiesPath = keyProperties
	}

	if strictSet {
		overrides.Strict = strict
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *port != "" {
		overrides.Port = port
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	kingpinApp.FatalIfError(err, "failed to load configuration")

	logger, err := logging.New(cfg.LogLevel)
	kingpinApp.FatalIfError(err, "failed to initialize logger")
	defer func() {
		_ = logger.Sync()
	}()

	switch command {
	case checkCmd.FullCommand():
		err = runCheck(cfg, logger, os.Stdout)
	case showCmd.FullCommand():
		err = runShow(cfg, logger, os.Stdout, *format)
	case serveCmd.FullCommand():
		err = runServe(cfg, logger)
	}
	if err != nil {
		logger.Fatal("release configuration failed", zap.String("command", command), zap.Error(err))
	}
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
