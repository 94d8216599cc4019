package flutter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Hans-byte2/Hochzeitsapp/internal/propfile"
)

// Values the Flutter Gradle plugin falls back to when a project does not set them.
const (
	DefaultCompileSdk  = 35
	DefaultMinSdk      = 21
	DefaultTargetSdk   = 35
	DefaultNDKVersion  = "27.0.12077973"
	DefaultVersionCode = 1
	DefaultVersionName = "1.0"
)

// local.properties keys written by the flutter tool.
const (
	PropVersionCode = "flutter.versionCode"
	PropVersionName = "flutter.versionName"
	PropMinSdk      = "flutter.minSdkVersion"
	PropTargetSdk   = "flutter.targetSdkVersion"
	PropCompileSdk  = "flutter.compileSdkVersion"
	PropNDKVersion  = "flutter.ndkVersion"

	localPropertiesFile = "local.properties"
	pubspecFile         = "pubspec.yaml"
)

// ErrInvalidVersion reports a malformed version or SDK number.
var ErrInvalidVersion = errors.New("invalid version")

// Versions holds the SDK levels and application version tuple.
type Versions struct {
	CompileSdk  int    `json:"compileSdk" yaml:"compileSdk"`
	MinSdk      int    `json:"minSdk" yaml:"minSdk"`
	TargetSdk   int    `json:"targetSdk" yaml:"targetSdk"`
	NDKVersion  string `json:"ndkVersion" yaml:"ndkVersion"`
	VersionCode int    `json:"versionCode" yaml:"versionCode"`
	VersionName string `json:"versionName" yaml:"versionName"`
}

// Defaults returns the plugin defaults.
func Defaults() Versions {
	return Versions{
		CompileSdk:  DefaultCompileSdk,
		MinSdk:      DefaultMinSdk,
		TargetSdk:   DefaultTargetSdk,
		NDKVersion:  DefaultNDKVersion,
		VersionCode: DefaultVersionCode,
		VersionName: DefaultVersionName,
	}
}

// Resolve layers pubspec.yaml from the Flutter project root (the parent of
// androidDir) and then androidDir/local.properties over Defaults.
// Both files are optional.
func Resolve(androidDir string) (Versions, error) {
	v := Defaults()

	if err := applyPubspec(&v, filepath.Join(androidDir, "..", pubspecFile)); err != nil {
		return Versions{}, err
	}
	if err := applyLocalProperties(&v, filepath.Join(androidDir, localPropertiesFile)); err != nil {
		return Versions{}, err
	}
	return v, nil
}

type pubspec struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

func applyPubspec(v *Versions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read pubspec: %w", err)
	}

	var spec pubspec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("parse pubspec: %w", err)
	}
	if strings.TrimSpace(spec.Version) == "" {
		return nil
	}

	name, code, hasCode, err := ParseVersion(spec.Version)
	if err != nil {
		return fmt.Errorf("pubspec version: %w", err)
	}
	v.VersionName = name
	if hasCode {
		v.VersionCode = code
	}
	return nil
}

func applyLocalProperties(v *Versions, path string) error {
	values, err := propfile.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read local properties: %w", err)
	}

	if name := strings.TrimSpace(values[PropVersionName]); name != "" {
		v.VersionName = name
	}
	if v.NDKVersion, err = stringProp(values, PropNDKVersion, v.NDKVersion); err != nil {
		return err
	}

	ints := []struct {
		key string
		dst *int
	}{
		{PropVersionCode, &v.VersionCode},
		{PropMinSdk, &v.MinSdk},
		{PropTargetSdk, &v.TargetSdk},
		{PropCompileSdk, &v.CompileSdk},
	}
	for _, p := range ints {
		raw := strings.TrimSpace(values[p.key])
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidVersion, p.key, raw)
		}
		*p.dst = n
	}
	return nil
}

func stringProp(values map[string]string, key, fallback string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return fallback, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidVersion, key)
	}
	return raw, nil
}

// ParseVersion splits a pubspec version such as "1.2.3+7" into its name and
// build number. hasCode is false when no "+build" suffix is present.
func ParseVersion(raw string) (name string, code int, hasCode bool, err error) {
	raw = strings.TrimSpace(raw)
	name, build, found := strings.Cut(raw, "+")
	if name == "" {
		return "", 0, false, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}
	if !found {
		return name, 0, false, nil
	}

	code, convErr := strconv.Atoi(build)
	if convErr != nil || code <= 0 {
		return "", 0, false, fmt.Errorf("%w: build number in %q", ErrInvalidVersion, raw)
	}
	return name, code, true, nil
}
