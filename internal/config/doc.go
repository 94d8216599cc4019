// Package config loads the tool's runtime configuration from multiple sources
// (YAML files, environment variables, CLI flags) with precedence: CLI flags >
// Environment variables > YAML config > Defaults. It locates the Android
// project and its key.properties file and carries the settings of the
// inspection server.
package config
