package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Hans-byte2/Hochzeitsapp/internal/application"
	"github.com/Hans-byte2/Hochzeitsapp/internal/config"
	"github.com/Hans-byte2/Hochzeitsapp/internal/signing"
	"github.com/Hans-byte2/Hochzeitsapp/internal/variant"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func runCheck(cfg config.Config, logger *zap.Logger, out io.Writer) error {
	build, err := application.Bootstrap(cfg, logger)
	if err != nil {
		return err
	}

	profile, _ := build.Module.SigningProfile(variant.Release)
	fmt.Fprintf(out, "release signing configured for %s %s (%d)\n",
		application.ApplicationID, build.Versions.VersionName, build.Versions.VersionCode)
	fmt.Fprintf(out, "  keystore: %s\n", orUnset(profile.StoreFile))
	fmt.Fprintf(out, "  key alias: %s\n", orUnset(signing.Value(build.Credentials.KeyAlias)))
	if missing := build.Credentials.Missing(); len(missing) > 0 {
		fmt.Fprintf(out, "  missing keys: %s\n", strings.Join(missing, ", "))
	}
	return nil
}

func runShow(cfg config.Config, logger *zap.Logger, out io.Writer, format string) error {
	build, err := application.Bootstrap(cfg, logger)
	if err != nil {
		return err
	}

	view := build.Module.Describe()
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case formatYAML, "":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func runServe(cfg config.Config, logger *zap.Logger) error {
	app, err := application.New(cfg, logger)
	if err != nil {
		return err
	}

	if err := app.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	return nil
}

func orUnset(value string) string {
	if value == "" {
		return signing.StatusUnset
	}
	return value
}
